// Package media provides the media library API endpoints.
//
// Endpoints (mounted at /api/media):
//   - GET    /     - List assets (optional kind/tag filters)
//   - POST   /     - Register an externally hosted asset
//   - DELETE /{id} - Remove an asset reference
//
// Assets are URL references only; files live on the external media
// service.
package media

import (
	"encoding/json"
	"net/http"
	"net/url"

	mediastore "github.com/dalemusser/congregate/internal/app/store/media"
	"github.com/dalemusser/congregate/internal/app/system/jsonutil"
	"github.com/dalemusser/congregate/internal/app/system/normalize"
	"github.com/dalemusser/congregate/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler handles media library API requests.
type Handler struct {
	store  *mediastore.Store
	logger *zap.Logger
}

// NewHandler creates a new media handler.
func NewHandler(store *mediastore.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// List handles GET /.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	assets, err := h.store.List(r.Context(), normalize.QueryParam(q.Get("kind")), normalize.QueryParam(q.Get("tag")))
	if err != nil {
		h.logger.Error("failed to list media assets", zap.Error(err))
		jsonutil.InternalError(w, "Failed to list media assets")
		return
	}
	if assets == nil {
		assets = []models.MediaAsset{}
	}
	jsonutil.OK(w, map[string]any{"assets": assets})
}

type createPayload struct {
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Kind  string   `json:"kind,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// Create handles POST /.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	// Only absolute http(s) URLs make sense for embeds.
	u, err := url.Parse(in.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		jsonutil.BadRequest(w, "url must be an absolute http(s) URL")
		return
	}

	created, err := h.store.Create(r.Context(), models.MediaAsset{
		Title: in.Title,
		URL:   in.URL,
		Kind:  in.Kind,
		Tags:  in.Tags,
	})
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	h.logger.Info("media asset registered",
		zap.String("asset_id", created.ID.Hex()),
		zap.String("kind", created.Kind))
	jsonutil.Created(w, created)
}

// Delete handles DELETE /{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "Invalid asset id")
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete media asset", zap.String("asset_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete media asset")
		return
	}
	if deleted == 0 {
		jsonutil.NotFound(w, "Media asset not found")
		return
	}
	jsonutil.NoContent(w)
}
