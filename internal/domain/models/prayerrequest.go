// internal/domain/models/prayerrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Prayer request statuses
const (
	PrayerStatusNew      = "new"
	PrayerStatusInPrayer = "in-prayer"
	PrayerStatusAnswered = "answered"
	PrayerStatusArchived = "archived"
)

// Prayer request sources
const (
	PrayerSourceManual  = "manual"
	PrayerSourceApp     = "app"
	PrayerSourceWebsite = "website"
)

// PrayerRequest is a prayer need submitted by or on behalf of a contact.
// Assigning a request to a staff member moves it to in-prayer; recording a
// response moves it to answered.
type PrayerRequest struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	ContactID   *primitive.ObjectID `bson:"contact_id,omitempty" json:"contact_id,omitempty"`
	Title       string              `bson:"title" json:"title"`
	// Description holds sanitized rich text.
	Description   string              `bson:"description" json:"description"`
	Status        string              `bson:"status" json:"status"`
	AssignedTo    *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	Source        string              `bson:"source,omitempty" json:"source,omitempty"`
	ResponseNotes string              `bson:"response_notes,omitempty" json:"response_notes,omitempty"`

	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidPrayerStatus checks whether s is a recognized prayer request status.
func IsValidPrayerStatus(s string) bool {
	switch s {
	case PrayerStatusNew, PrayerStatusInPrayer, PrayerStatusAnswered, PrayerStatusArchived:
		return true
	}
	return false
}
