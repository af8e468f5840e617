// internal/domain/models/settings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default tenant settings used before an administrator saves their own.
const (
	DefaultChurchName     = "Our Church"
	DefaultPrimaryColor   = "#1d4ed8"
	DefaultSecondaryColor = "#f59e0b"
	DefaultTimeZone       = "UTC"
)

// TenantSettings is the branding/contact configuration for the tenant.
// Congregate keeps a singleton settings document per deployment.
//
// Logo fields hold URLs to externally hosted assets; congregate does not
// store or upload image files itself.
type TenantSettings struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name string             `bson:"name" json:"name"`

	Address      string `bson:"address,omitempty" json:"address,omitempty"`
	ContactEmail string `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	ContactPhone string `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	Website      string `bson:"website,omitempty" json:"website,omitempty"`
	Description  string `bson:"description,omitempty" json:"description,omitempty"`
	TimeZone     string `bson:"time_zone" json:"time_zone"`

	LogoURL       string `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	LogoWhiteURL  string `bson:"logo_white_url,omitempty" json:"logo_white_url,omitempty"`
	LogoMobileURL string `bson:"logo_mobile_url,omitempty" json:"logo_mobile_url,omitempty"`

	PrimaryColor   string `bson:"primary_color" json:"primary_color"`
	SecondaryColor string `bson:"secondary_color" json:"secondary_color"`

	// Contact page details
	PrayerLine          string `bson:"prayer_line,omitempty" json:"prayer_line,omitempty"`
	OfficeHoursWeekdays string `bson:"office_hours_weekdays,omitempty" json:"office_hours_weekdays,omitempty"`
	OfficeHoursWeekends string `bson:"office_hours_weekends,omitempty" json:"office_hours_weekends,omitempty"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
