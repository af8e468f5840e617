// internal/domain/content/registry.go

// Package content implements the page-builder content model: the section-type
// registry with its per-type default payloads, and the Editor that maintains
// a page's ordered section list through its save/publish lifecycle.
package content

import (
	"fmt"

	"github.com/dalemusser/congregate/internal/domain/models"
)

// IsKnownType reports whether t is one of the supported section types.
// Sections loaded with an unknown type are carried through edits and saves
// untouched rather than rejected, so pages keep working when the server
// introduces a type this build does not know yet.
func IsKnownType(t models.SectionType) bool {
	for _, known := range models.AllSectionTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// DefaultProps returns the starter payload for a newly created section of
// the given type. Every supported type yields a fully populated placeholder
// so a fresh section renders with sensible content instead of blank fields.
//
// The result is a fresh value on every call; callers may mutate it freely.
// Requesting defaults for an unknown type returns ErrUnknownSectionType.
func DefaultProps(t models.SectionType) (map[string]any, error) {
	switch t {
	case models.SectionHero:
		return map[string]any{
			"firstLine":       "Welcome to Our Church",
			"heading":         "Hero Heading",
			"subheading":      "Subheading text goes here",
			"backgroundImage": "",
			"ctaButtons": []any{
				map[string]any{"text": "Learn More", "link": "#", "style": "primary"},
			},
		}, nil
	case models.SectionEventCarousel:
		return map[string]any{
			"title":       "Upcoming Events",
			"description": "Join us at our upcoming events",
			"maxEvents":   4,
		}, nil
	case models.SectionImageCollage:
		return map[string]any{
			"title":  "Gallery",
			"images": []any{},
		}, nil
	case models.SectionSermonCarousel:
		return map[string]any{
			"title":       "Recent Sermons",
			"description": "Watch our latest messages",
			"maxSermons":  3,
		}, nil
	case models.SectionIconGrid:
		return map[string]any{
			"title":       "Our Ministries",
			"description": "Learn about our church ministries",
			"items": []any{
				map[string]any{"icon": "Heart", "title": "Ministry 1", "description": "Description text", "link": "#"},
				map[string]any{"icon": "Users", "title": "Ministry 2", "description": "Description text", "link": "#"},
			},
		}, nil
	case models.SectionTestimonialSlider:
		return map[string]any{
			"title":    "Testimonials",
			"subtitle": "What Our Community Says",
			"testimonials": []any{
				map[string]any{
					"name":      "Sarah Johnson",
					"role":      "Church Member",
					"text":      "Joining this church was a life-changing decision for our family. The community here brought our faith to life.",
					"image":     "",
					"video_url": "",
					"has_video": false,
				},
				map[string]any{
					"name":      "Pastor Michael",
					"role":      "Lead Pastor",
					"text":      "Witnessing God's transformative power through our community outreach programs has been incredible.",
					"image":     "",
					"video_url": "",
					"has_video": false,
				},
				map[string]any{
					"name":      "Maria Garcia",
					"role":      "Youth Leader",
					"text":      "The support and love I've received here has helped me grow not just in faith, but as a person.",
					"image":     "",
					"video_url": "",
					"has_video": false,
				},
			},
		}, nil
	case models.SectionCallToAction:
		return map[string]any{
			"heading":         "Ready to join us?",
			"text":            "Come be a part of our community",
			"buttonText":      "Get Started",
			"buttonLink":      "#",
			"backgroundImage": "",
		}, nil
	case models.SectionMediaSections:
		return map[string]any{
			"title":                "Photo Gallery",
			"subtitle":             "Capturing moments from our services and programs",
			"type":                 "photos",
			"collections_to_show":  4,
			"show_category_badges": true,
			"layout":               "grid",
		}, nil
	case models.SectionEventList:
		return map[string]any{
			"title":         "All Events",
			"showFilters":   true,
			"eventsPerPage": 10,
		}, nil
	case models.SectionContactSection:
		return map[string]any{
			"title":   "Contact Us",
			"address": "123 Church St, City, State",
			"phone":   "(123) 456-7890",
			"email":   "info@church.com",
			"showMap": true,
		}, nil
	case models.SectionOurStory:
		return map[string]any{
			"first_line":     "Our Story",
			"main_header":    "Who We Are",
			"paragraph_text": "Share your church's journey, mission, and the heart behind your ministry. This is where you can tell your community about your history, values, and what drives your passion for serving Christ.",
			"media_url":      "",
			"media_type":     "image",
			"button_text":    "Learn More",
			"button_link":    "#",
			"button_style":   "primary",
		}, nil
	case models.SectionGetInvolved:
		return map[string]any{
			"title":             "Get Involved",
			"subtitle":          "Join Our Community",
			"description":       "Discover meaningful ways to connect, serve, and grow in your faith journey with us.",
			"show_all_link":     true,
			"all_link_text":     "View All Opportunities",
			"all_link_url":      "/get-involved",
			"max_items":         6,
			"filter_categories": []any{}, // empty means show all categories
			"layout":            "grid",
		}, nil
	case models.SectionMissionVision:
		return map[string]any{
			"first_line":  "Our Purpose",
			"main_header": "Mission & Vision",
			"subheader":   "Our mission guides everything we do, and our vision inspires where we're going",
			"mission": map[string]any{
				"title":       "Our Mission",
				"description": "To make disciples of Jesus Christ by loving God, loving others, and serving our community with excellence, integrity, and unwavering compassion.",
				"media_url":   "",
				"media_type":  "video",
				"items": []any{
					"Loving God: Through worship, prayer, and biblical study",
					"Loving Others: Building authentic relationships and community",
					"Serving Community: Meeting needs with compassion and excellence",
				},
			},
			"vision": map[string]any{
				"title":       "Our Vision",
				"description": "To be a thriving, Christ-centered community that transforms lives, strengthens families, and impacts our local and global neighborhoods for the Kingdom of God.",
				"media_url":   "",
				"media_type":  "video",
				"items": []any{
					"Thriving Community: A place where everyone belongs and grows",
					"Transformed Lives: Experiencing the life-changing power of Jesus",
					"Global Impact: Reaching beyond our walls to serve the world",
				},
			},
		}, nil
	case models.SectionLeadershipTeam:
		return map[string]any{
			"first_line":  "Our Team",
			"main_header": "Leadership Team",
			"subheader":   "Meet the passionate leaders who guide our church with wisdom, compassion, and dedication to serving God and our community",
			"head_pastor": map[string]any{
				"name":               "Pastor Michael Johnson",
				"role":               "Lead Pastor",
				"bio":                "With over 15 years of ministry experience, Pastor Michael brings passion for teaching and community building to our church.",
				"media_url":          "",
				"media_type":         "video",
				"areas_of_ministry":  []any{"Teaching", "Community Building", "Pastoral Care"},
				"button_text":        "Watch Message",
				"button_link":        "#",
			},
			"other_pastors": []any{
				map[string]any{
					"name":              "Sarah Williams",
					"role":              "Worship Director",
					"bio":               "Sarah leads our worship ministry with a heart for creating meaningful encounters with God through music and praise.",
					"media_url":         "",
					"media_type":        "video",
					"areas_of_ministry": []any{"Worship Leading", "Music Ministry", "Creative Arts"},
				},
				map[string]any{
					"name":              "David Chen",
					"role":              "Youth Pastor",
					"bio":               "David is passionate about helping young people discover their identity in Christ and grow in their faith journey.",
					"media_url":         "",
					"media_type":        "video",
					"areas_of_ministry": []any{"Youth Ministry", "Discipleship", "Mentoring"},
				},
			},
		}, nil
	case models.SectionTeamHighlights:
		return map[string]any{
			"title":            "Team Highlights",
			"subtitle":         "Celebrating Excellence",
			"description":      "Recognizing the outstanding achievements and contributions of our dedicated team members",
			"layout":           "grid",
			"background_color": "white",
			"show_icons":       true,
			"highlights": []any{
				map[string]any{
					"name":           "Pastor Sarah Williams",
					"role":           "Worship Director",
					"achievement":    "Church Growth Leadership Award",
					"description":    "Led our worship ministry to reach over 500 regular attendees, creating meaningful worship experiences that brought our community closer to God.",
					"image_url":      "",
					"video_url":      "",
					"media_type":     "image",
					"highlight_type": "achievement",
				},
				map[string]any{
					"name":           "David Chen",
					"role":           "Youth Pastor",
					"achievement":    "10 Years of Youth Ministry",
					"description":    "Celebrating a decade of dedicated service to young people, helping over 200 youth discover their faith and purpose.",
					"image_url":      "",
					"video_url":      "",
					"media_type":     "image",
					"highlight_type": "milestone",
				},
				map[string]any{
					"name":           "Maria Rodriguez",
					"role":           "Community Outreach Coordinator",
					"achievement":    "Community Service Recognition",
					"description":    "Recognized by the city for exceptional community service, organizing food drives that served over 1,000 families in need.",
					"image_url":      "",
					"video_url":      "",
					"media_type":     "image",
					"highlight_type": "recognition",
				},
			},
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSectionType, t)
}
