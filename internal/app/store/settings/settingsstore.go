// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"time"

	"github.com/dalemusser/congregate/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the tenant_settings collection.
// Congregate uses a singleton settings document (one per deployment).
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tenant_settings")}
}

// Get returns the tenant settings.
// If no settings exist, returns default settings.
func (s *Store) Get(ctx context.Context) (*models.TenantSettings, error) {
	var settings models.TenantSettings
	// Use singleton filter - there's only one settings document
	filter := bson.M{"singleton": true}
	err := s.c.FindOne(ctx, filter).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		// Return default settings
		return &models.TenantSettings{
			Name:           models.DefaultChurchName,
			TimeZone:       models.DefaultTimeZone,
			PrimaryColor:   models.DefaultPrimaryColor,
			SecondaryColor: models.DefaultSecondaryColor,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save updates the tenant settings.
// Uses upsert so it works whether settings exist or not.
func (s *Store) Save(ctx context.Context, settings models.TenantSettings) error {
	now := time.Now().UTC()
	settings.UpdatedAt = &now

	// Use singleton filter
	filter := bson.M{"singleton": true}
	update := bson.M{
		"$set": bson.M{
			"singleton":             true,
			"name":                  settings.Name,
			"address":               settings.Address,
			"contact_email":         settings.ContactEmail,
			"contact_phone":         settings.ContactPhone,
			"website":               settings.Website,
			"description":           settings.Description,
			"time_zone":             settings.TimeZone,
			"logo_url":              settings.LogoURL,
			"logo_white_url":        settings.LogoWhiteURL,
			"logo_mobile_url":       settings.LogoMobileURL,
			"primary_color":         settings.PrimaryColor,
			"secondary_color":       settings.SecondaryColor,
			"prayer_line":           settings.PrayerLine,
			"office_hours_weekdays": settings.OfficeHoursWeekdays,
			"office_hours_weekends": settings.OfficeHoursWeekends,
			"updated_at":            settings.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	return err
}

// Exists checks if settings have been saved.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	filter := bson.M{"singleton": true}
	count, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
