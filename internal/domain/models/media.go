// internal/domain/models/media.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media asset kinds
const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)

// MediaAsset is a reference to an externally hosted image or video that the
// page builder can embed. Congregate stores only the URL; upload and storage
// are handled by the external media service.
type MediaAsset struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title string             `bson:"title" json:"title"`
	URL   string             `bson:"url" json:"url"`
	Kind  string             `bson:"kind" json:"kind"` // image or video
	Tags  []string           `bson:"tags,omitempty" json:"tags,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// IsValidMediaKind checks whether s is a recognized media kind.
func IsValidMediaKind(s string) bool {
	return s == MediaKindImage || s == MediaKindVideo
}
