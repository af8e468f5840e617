// internal/domain/models/contact.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact lifecycle stages
const (
	LifecycleVisitor = "visitor"
	LifecycleRegular = "regular"
	LifecycleMember  = "member"
	LifecycleLeader  = "leader"
)

// Contact is a person the church tracks: visitors, members, and leaders.
type Contact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
	// NameCI is the case-folded full name used for search.
	NameCI    string   `bson:"name_ci" json:"-"`
	Email     string   `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string   `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string   `bson:"address,omitempty" json:"address,omitempty"`
	Lifecycle string   `bson:"lifecycle" json:"lifecycle"` // visitor, regular, member, leader
	Tags      []string `bson:"tags,omitempty" json:"tags,omitempty"`
	// Notes holds sanitized rich text entered by staff.
	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName returns the display name for a contact.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// IsValidLifecycle checks whether s is a recognized lifecycle stage.
func IsValidLifecycle(s string) bool {
	switch s {
	case LifecycleVisitor, LifecycleRegular, LifecycleMember, LifecycleLeader:
		return true
	}
	return false
}
