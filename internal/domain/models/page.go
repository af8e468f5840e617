// internal/domain/models/page.go
package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page is a builder-managed marketing page composed of an ordered list of
// typed sections. A page with a nil PublishedAt is a draft.
type Page struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"` // URL slug, unique
	SEOMeta     SEOMeta            `bson:"seo_meta" json:"seo_meta"`
	PublishedAt *time.Time         `bson:"published_at" json:"published_at"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// SEOMeta holds optional search/social metadata for a page.
// All fields are independently optional.
type SEOMeta struct {
	Title       string   `bson:"title,omitempty" json:"title,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL    string   `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Keywords    []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
}

// IsPublished reports whether the page is visible to the public site.
// A future PublishedAt counts as unpublished until the time arrives.
func (p Page) IsPublished() bool {
	return p.PublishedAt != nil && !p.PublishedAt.After(time.Now())
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugCollapse = regexp.MustCompile(`--+`)
)

// SlugFromTitle derives a URL-safe slug from a page title: lowercase,
// special characters removed, whitespace runs become single hyphens.
// The transform is deterministic so the same title always yields the
// same slug.
func SlugFromTitle(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
