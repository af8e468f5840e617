// Package contacts provides the people directory API endpoints.
//
// Endpoints (mounted at /api/contacts):
//   - GET    /            - List contacts (lifecycle/tag/search filters, paginated)
//   - POST   /            - Create a contact
//   - GET    /{id}        - Get a contact with their groups
//   - PATCH  /{id}        - Update contact fields
//   - DELETE /{id}        - Delete a contact (and pull them from all groups)
//   - POST   /{id}/lifecycle - Move a contact to a new lifecycle stage
package contacts

import (
	"encoding/json"
	"net/http"
	"strconv"

	contactstore "github.com/dalemusser/congregate/internal/app/store/contacts"
	groupstore "github.com/dalemusser/congregate/internal/app/store/groups"
	"github.com/dalemusser/congregate/internal/app/system/htmlsanitize"
	"github.com/dalemusser/congregate/internal/app/system/jsonutil"
	"github.com/dalemusser/congregate/internal/app/system/normalize"
	"github.com/dalemusser/congregate/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles contact directory API requests.
type Handler struct {
	contacts *contactstore.Store
	groups   *groupstore.Store
	logger   *zap.Logger
}

// NewHandler creates a new contacts handler.
func NewHandler(contacts *contactstore.Store, groups *groupstore.Store, logger *zap.Logger) *Handler {
	return &Handler{contacts: contacts, groups: groups, logger: logger}
}

// List handles GET /.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := contactstore.ListFilter{
		Lifecycle: normalize.QueryParam(q.Get("lifecycle")),
		Tag:       normalize.QueryParam(q.Get("tag")),
		Search:    normalize.QueryParam(q.Get("q")),
	}
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)

	contacts, total, err := h.contacts.List(r.Context(), filter, limit, page)
	if err != nil {
		h.logger.Error("failed to list contacts", zap.Error(err))
		jsonutil.InternalError(w, "Failed to list contacts")
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	jsonutil.OK(w, map[string]any{
		"contacts": contacts,
		"total":    total,
	})
}

type createPayload struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Address   string   `json:"address,omitempty"`
	Lifecycle string   `json:"lifecycle,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// Create handles POST /.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}
	if normalize.Name(in.FirstName) == "" {
		jsonutil.BadRequest(w, "first_name is required")
		return
	}

	created, err := h.contacts.Create(r.Context(), models.Contact{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		Lifecycle: in.Lifecycle,
		Tags:      in.Tags,
		Notes:     htmlsanitize.Sanitize(in.Notes),
	})
	if err != nil {
		if err == contactstore.ErrDuplicateEmail {
			jsonutil.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("failed to create contact", zap.Error(err))
		jsonutil.BadRequest(w, err.Error())
		return
	}

	h.logger.Info("contact created",
		zap.String("contact_id", created.ID.Hex()),
		zap.String("lifecycle", created.Lifecycle))
	jsonutil.Created(w, created)
}

// Get handles GET /{id}. The response includes the groups the contact
// belongs to, so the detail view needs one round trip.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contactID(w, r)
	if !ok {
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Contact not found")
			return
		}
		h.logger.Error("failed to load contact", zap.String("contact_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load contact")
		return
	}

	groups, err := h.groups.ListForContact(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load contact groups", zap.String("contact_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load contact")
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}

	jsonutil.OK(w, map[string]any{
		"contact": contact,
		"groups":  groups,
	})
}

type updatePayload struct {
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Lifecycle *string   `json:"lifecycle,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
}

// Update handles PATCH /{id}. Absent fields are left untouched.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contactID(w, r)
	if !ok {
		return
	}

	var in updatePayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	upd := contactstore.UpdateInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		Lifecycle: in.Lifecycle,
		Tags:      in.Tags,
	}
	if in.Notes != nil {
		clean := htmlsanitize.Sanitize(*in.Notes)
		upd.Notes = &clean
	}

	if err := h.contacts.Update(r.Context(), id, upd); err != nil {
		switch err {
		case mongo.ErrNoDocuments:
			jsonutil.NotFound(w, "Contact not found")
		case contactstore.ErrDuplicateEmail:
			jsonutil.Error(w, http.StatusConflict, err.Error())
		default:
			jsonutil.BadRequest(w, err.Error())
		}
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to reload contact", zap.String("contact_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load contact")
		return
	}
	jsonutil.OK(w, contact)
}

// Delete handles DELETE /{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contactID(w, r)
	if !ok {
		return
	}

	deleted, err := h.contacts.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete contact", zap.String("contact_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete contact")
		return
	}
	if deleted == 0 {
		jsonutil.NotFound(w, "Contact not found")
		return
	}

	// Groups must not keep dangling member ids.
	if err := h.groups.RemoveContactFromAll(r.Context(), id); err != nil {
		h.logger.Error("failed to remove contact from groups",
			zap.String("contact_id", id.Hex()),
			zap.Error(err))
	}

	h.logger.Info("contact deleted", zap.String("contact_id", id.Hex()))
	jsonutil.NoContent(w)
}

// SetLifecycle handles POST /{id}/lifecycle.
func (h *Handler) SetLifecycle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contactID(w, r)
	if !ok {
		return
	}

	var in struct {
		Lifecycle string `json:"lifecycle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	if err := h.contacts.SetLifecycle(r.Context(), id, in.Lifecycle); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Contact not found")
			return
		}
		jsonutil.BadRequest(w, err.Error())
		return
	}

	h.logger.Info("contact lifecycle changed",
		zap.String("contact_id", id.Hex()),
		zap.String("lifecycle", in.Lifecycle))

	contact, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to reload contact", zap.String("contact_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load contact")
		return
	}
	jsonutil.OK(w, contact)
}

func (h *Handler) contactID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "Invalid contact id")
		return primitive.NilObjectID, false
	}
	return id, true
}
