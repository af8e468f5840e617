// internal/domain/models/visit.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Planned visit statuses
const (
	VisitStatusPlanned   = "planned"
	VisitStatusConfirmed = "confirmed"
	VisitStatusCompleted = "completed"
	VisitStatusCancelled = "cancelled"
	VisitStatusNoShow    = "no-show"
)

// PlannedVisit records a newcomer's intent to attend a service or event, so
// the welcome team can prepare and follow up.
type PlannedVisit struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	ContactID *primitive.ObjectID `bson:"contact_id,omitempty" json:"contact_id,omitempty"`
	EventName string              `bson:"event_name" json:"event_name"`
	EventDate time.Time           `bson:"event_date" json:"event_date"`

	InterestLevel     string `bson:"interest_level,omitempty" json:"interest_level,omitempty"`
	HowHeardAboutUs   string `bson:"how_heard_about_us,omitempty" json:"how_heard_about_us,omitempty"`
	ComingWithOthers  bool   `bson:"coming_with_others,omitempty" json:"coming_with_others,omitempty"`
	CompanionsCount   int    `bson:"companions_count,omitempty" json:"companions_count,omitempty"`
	SpecialNeeds      string `bson:"special_needs,omitempty" json:"special_needs,omitempty"`
	ContactPreference string `bson:"contact_preference,omitempty" json:"contact_preference,omitempty"`
	Notes             string `bson:"notes,omitempty" json:"notes,omitempty"`

	Status       string              `bson:"status" json:"status"`
	AssignedTo   *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	FollowUpDate *time.Time          `bson:"follow_up_date,omitempty" json:"follow_up_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidVisitStatus checks whether s is a recognized visit status.
func IsValidVisitStatus(s string) bool {
	switch s {
	case VisitStatusPlanned, VisitStatusConfirmed, VisitStatusCompleted,
		VisitStatusCancelled, VisitStatusNoShow:
		return true
	}
	return false
}
