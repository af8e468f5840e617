// Package prayer provides the prayer request queue API endpoints.
//
// Endpoints (mounted at /api/prayer):
//   - GET    /              - List requests (status/assignee/contact filters, paginated)
//   - POST   /              - Submit a request
//   - GET    /{id}          - Get a request
//   - POST   /{id}/assign   - Assign a request to a staff contact
//   - POST   /{id}/answer   - Record an answer and close the request
//   - POST   /{id}/status   - Set the status directly
//   - DELETE /{id}          - Delete a request
package prayer

import (
	"encoding/json"
	"net/http"
	"strconv"

	prayerstore "github.com/dalemusser/congregate/internal/app/store/prayer"
	"github.com/dalemusser/congregate/internal/app/system/htmlsanitize"
	"github.com/dalemusser/congregate/internal/app/system/jsonutil"
	"github.com/dalemusser/congregate/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles prayer request API requests.
type Handler struct {
	store  *prayerstore.Store
	logger *zap.Logger
}

// NewHandler creates a new prayer handler.
func NewHandler(store *prayerstore.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// List handles GET /.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := prayerstore.ListFilter{Status: q.Get("status")}
	if v := q.Get("assigned_to"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid assigned_to")
			return
		}
		filter.AssignedTo = id
	}
	if v := q.Get("contact_id"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid contact_id")
			return
		}
		filter.ContactID = id
	}
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)

	requests, total, err := h.store.List(r.Context(), filter, limit, page)
	if err != nil {
		h.logger.Error("failed to list prayer requests", zap.Error(err))
		jsonutil.InternalError(w, "Failed to list prayer requests")
		return
	}
	if requests == nil {
		requests = []models.PrayerRequest{}
	}
	jsonutil.OK(w, map[string]any{
		"requests": requests,
		"total":    total,
	})
}

type createPayload struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	ContactID   *string `json:"contact_id,omitempty"`
	Source      string  `json:"source,omitempty"`
}

// Create handles POST /.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	req := models.PrayerRequest{
		Title:       in.Title,
		Description: htmlsanitize.Sanitize(in.Description),
		Source:      in.Source,
	}
	if in.ContactID != nil {
		contactID, err := primitive.ObjectIDFromHex(*in.ContactID)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid contact_id")
			return
		}
		req.ContactID = &contactID
	}

	created, err := h.store.Create(r.Context(), req)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	h.logger.Info("prayer request submitted",
		zap.String("request_id", created.ID.Hex()),
		zap.String("source", created.Source))
	jsonutil.Created(w, created)
}

// Get handles GET /{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requestID(w, r)
	if !ok {
		return
	}

	req, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Prayer request not found")
			return
		}
		h.logger.Error("failed to load prayer request", zap.String("request_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load prayer request")
		return
	}
	jsonutil.OK(w, req)
}

// Assign handles POST /{id}/assign. Assignment moves the request to
// in-prayer.
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requestID(w, r)
	if !ok {
		return
	}

	var in struct {
		AssignedTo string `json:"assigned_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}
	assigneeID, err := primitive.ObjectIDFromHex(in.AssignedTo)
	if err != nil {
		jsonutil.BadRequest(w, "Invalid assigned_to")
		return
	}

	if err := h.store.Assign(r.Context(), id, assigneeID); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Prayer request not found")
			return
		}
		h.logger.Error("failed to assign prayer request", zap.String("request_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to assign prayer request")
		return
	}

	h.logger.Info("prayer request assigned",
		zap.String("request_id", id.Hex()),
		zap.String("assigned_to", assigneeID.Hex()))
	h.respondWith(w, r, id)
}

// Answer handles POST /{id}/answer.
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requestID(w, r)
	if !ok {
		return
	}

	var in struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	if err := h.store.RecordAnswer(r.Context(), id, htmlsanitize.Sanitize(in.Notes)); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Prayer request not found")
			return
		}
		h.logger.Error("failed to record answer", zap.String("request_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to record answer")
		return
	}

	h.logger.Info("prayer request answered", zap.String("request_id", id.Hex()))
	h.respondWith(w, r, id)
}

// SetStatus handles POST /{id}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requestID(w, r)
	if !ok {
		return
	}

	var in struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	if err := h.store.SetStatus(r.Context(), id, in.Status); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Prayer request not found")
			return
		}
		jsonutil.BadRequest(w, err.Error())
		return
	}
	h.respondWith(w, r, id)
}

// Delete handles DELETE /{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requestID(w, r)
	if !ok {
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete prayer request", zap.String("request_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete prayer request")
		return
	}
	if deleted == 0 {
		jsonutil.NotFound(w, "Prayer request not found")
		return
	}
	jsonutil.NoContent(w)
}

func (h *Handler) respondWith(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	req, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to reload prayer request", zap.String("request_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load prayer request")
		return
	}
	jsonutil.OK(w, req)
}

func (h *Handler) requestID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "Invalid prayer request id")
		return primitive.NilObjectID, false
	}
	return id, true
}
