// Package visits provides the planned visit API endpoints.
//
// Endpoints (mounted at /api/visits):
//   - GET    /               - List visits (status/contact/date filters, paginated)
//   - GET    /upcoming       - Upcoming planned and confirmed visits
//   - POST   /               - Record a planned visit
//   - GET    /{id}           - Get a visit
//   - POST   /{id}/status    - Set the visit status
//   - POST   /{id}/follow-up - Assign follow-up to a staff contact
//   - DELETE /{id}           - Delete a visit
package visits

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	visitstore "github.com/dalemusser/congregate/internal/app/store/visits"
	"github.com/dalemusser/congregate/internal/app/system/htmlsanitize"
	"github.com/dalemusser/congregate/internal/app/system/jsonutil"
	"github.com/dalemusser/congregate/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles planned visit API requests.
type Handler struct {
	store  *visitstore.Store
	logger *zap.Logger
}

// NewHandler creates a new visits handler.
func NewHandler(store *visitstore.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// List handles GET /. Date bounds are RFC 3339 timestamps in the
// "from" and "to" query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := visitstore.ListFilter{Status: q.Get("status")}
	if v := q.Get("contact_id"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid contact_id")
			return
		}
		filter.ContactID = id
	}
	if v := q.Get("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid from date")
			return
		}
		filter.From = from
	}
	if v := q.Get("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid to date")
			return
		}
		filter.To = to
	}
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)

	visits, total, err := h.store.List(r.Context(), filter, limit, page)
	if err != nil {
		h.logger.Error("failed to list visits", zap.Error(err))
		jsonutil.InternalError(w, "Failed to list visits")
		return
	}
	if visits == nil {
		visits = []models.PlannedVisit{}
	}
	jsonutil.OK(w, map[string]any{
		"visits": visits,
		"total":  total,
	})
}

// Upcoming handles GET /upcoming.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	visits, err := h.store.ListUpcoming(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list upcoming visits", zap.Error(err))
		jsonutil.InternalError(w, "Failed to list visits")
		return
	}
	if visits == nil {
		visits = []models.PlannedVisit{}
	}
	jsonutil.OK(w, map[string]any{"visits": visits})
}

type createPayload struct {
	ContactID         *string   `json:"contact_id,omitempty"`
	EventName         string    `json:"event_name"`
	EventDate         time.Time `json:"event_date"`
	InterestLevel     string    `json:"interest_level,omitempty"`
	HowHeardAboutUs   string    `json:"how_heard_about_us,omitempty"`
	ComingWithOthers  bool      `json:"coming_with_others,omitempty"`
	CompanionsCount   int       `json:"companions_count,omitempty"`
	SpecialNeeds      string    `json:"special_needs,omitempty"`
	ContactPreference string    `json:"contact_preference,omitempty"`
	Notes             string    `json:"notes,omitempty"`
}

// Create handles POST /.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}
	if in.EventDate.IsZero() {
		jsonutil.BadRequest(w, "event_date is required")
		return
	}

	visit := models.PlannedVisit{
		EventName:         in.EventName,
		EventDate:         in.EventDate,
		InterestLevel:     in.InterestLevel,
		HowHeardAboutUs:   in.HowHeardAboutUs,
		ComingWithOthers:  in.ComingWithOthers,
		CompanionsCount:   in.CompanionsCount,
		SpecialNeeds:      in.SpecialNeeds,
		ContactPreference: in.ContactPreference,
		Notes:             htmlsanitize.Sanitize(in.Notes),
	}
	if in.ContactID != nil {
		contactID, err := primitive.ObjectIDFromHex(*in.ContactID)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid contact_id")
			return
		}
		visit.ContactID = &contactID
	}

	created, err := h.store.Create(r.Context(), visit)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	h.logger.Info("visit planned",
		zap.String("visit_id", created.ID.Hex()),
		zap.String("event", created.EventName),
		zap.Time("event_date", created.EventDate))
	jsonutil.Created(w, created)
}

// Get handles GET /{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.visitID(w, r)
	if !ok {
		return
	}

	visit, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Visit not found")
			return
		}
		h.logger.Error("failed to load visit", zap.String("visit_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load visit")
		return
	}
	jsonutil.OK(w, visit)
}

// SetStatus handles POST /{id}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.visitID(w, r)
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
			jsonutil.NotFound(w, "Visit not found")
			return
		}
		jsonutil.BadRequest(w, err.Error())
		return
	}
	h.respondWith(w, r, id)
}

// AssignFollowUp handles POST /{id}/follow-up.
func (h *Handler) AssignFollowUp(w http.ResponseWriter, r *http.Request) {
	id, ok := h.visitID(w, r)
	if !ok {
		return
	}

	var in struct {
		AssignedTo   string     `json:"assigned_to"`
		FollowUpDate *time.Time `json:"follow_up_date,omitempty"`
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

	if err := h.store.AssignFollowUp(r.Context(), id, assigneeID, in.FollowUpDate); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Visit not found")
			return
		}
		h.logger.Error("failed to assign follow-up", zap.String("visit_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to assign follow-up")
		return
	}

	h.logger.Info("visit follow-up assigned",
		zap.String("visit_id", id.Hex()),
		zap.String("assigned_to", assigneeID.Hex()))
	h.respondWith(w, r, id)
}

// Delete handles DELETE /{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.visitID(w, r)
	if !ok {
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete visit", zap.String("visit_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete visit")
		return
	}
	if deleted == 0 {
		jsonutil.NotFound(w, "Visit not found")
		return
	}
	jsonutil.NoContent(w)
}

func (h *Handler) respondWith(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	visit, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to reload visit", zap.String("visit_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load visit")
		return
	}
	jsonutil.OK(w, visit)
}

func (h *Handler) visitID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "Invalid visit id")
		return primitive.NilObjectID, false
	}
	return id, true
}
