// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group statuses
const (
	GroupStatusActive   = "active"
	GroupStatusPaused   = "paused"
	GroupStatusArchived = "archived"
)

// Group is a discipleship group: a small gathering of contacts led by one
// of them, meeting on a recurring schedule.
type Group struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	LeaderID    *primitive.ObjectID `bson:"leader_id,omitempty" json:"leader_id,omitempty"`
	MeetingDay  string              `bson:"meeting_day,omitempty" json:"meeting_day,omitempty"`
	MeetingTime string              `bson:"meeting_time,omitempty" json:"meeting_time,omitempty"`
	Status      string              `bson:"status" json:"status"`

	// MemberIDs are the contacts currently in the group. Membership is a
	// plain set; roles beyond leader are not tracked.
	MemberIDs []primitive.ObjectID `bson:"member_ids,omitempty" json:"member_ids,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidGroupStatus checks whether s is a recognized group status.
func IsValidGroupStatus(s string) bool {
	switch s {
	case GroupStatusActive, GroupStatusPaused, GroupStatusArchived:
		return true
	}
	return false
}
