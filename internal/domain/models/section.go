// internal/domain/models/section.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SectionType tags a page section with the content block it renders.
// The set of types is closed; the registry in internal/domain/content
// knows the default payload for each.
type SectionType string

// Section types
const (
	SectionHero              SectionType = "hero"
	SectionEventCarousel     SectionType = "event_carousel"
	SectionImageCollage      SectionType = "image_collage"
	SectionSermonCarousel    SectionType = "sermon_carousel"
	SectionIconGrid          SectionType = "icon_grid"
	SectionTestimonialSlider SectionType = "testimonial_slider"
	SectionCallToAction      SectionType = "call_to_action"
	SectionMediaSections     SectionType = "media_sections"
	SectionEventList         SectionType = "event_list"
	SectionContactSection    SectionType = "contact_section"
	SectionOurStory          SectionType = "our_story"
	SectionGetInvolved       SectionType = "get_involved"
	SectionMissionVision     SectionType = "mission_vision"
	SectionLeadershipTeam    SectionType = "leadership_team"
	SectionTeamHighlights    SectionType = "team_highlights"
)

// AllSectionTypes returns every supported section type in menu order.
func AllSectionTypes() []SectionType {
	return []SectionType{
		SectionHero,
		SectionEventCarousel,
		SectionImageCollage,
		SectionSermonCarousel,
		SectionIconGrid,
		SectionTestimonialSlider,
		SectionCallToAction,
		SectionMediaSections,
		SectionEventList,
		SectionContactSection,
		SectionOurStory,
		SectionGetInvolved,
		SectionMissionVision,
		SectionLeadershipTeam,
		SectionTeamHighlights,
	}
}

// PageSection is one content block within a page. Sections belong to exactly
// one page and are stored as an ordered sequence; Order values are contiguous
// 0..n-1 whenever a page is saved.
//
// Props is the type-specific payload. Its shape is determined entirely by
// Type; the persistence layer treats it as opaque.
type PageSection struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PageID primitive.ObjectID `bson:"page_id,omitempty" json:"page_id,omitempty"`
	Type   SectionType        `bson:"type" json:"type"`
	Order  int                `bson:"order" json:"order"`
	Props  map[string]any     `bson:"props" json:"props"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
}
