// Package groups provides the small-group management API endpoints.
//
// Endpoints (mounted at /api/groups):
//   - GET    /                     - List groups (optional status filter)
//   - POST   /                     - Create a group
//   - GET    /{id}                 - Get a group with its member roster
//   - PATCH  /{id}                 - Update group fields
//   - DELETE /{id}                 - Delete a group
//   - POST   /{id}/members         - Add a contact to the group
//   - DELETE /{id}/members/{contactID} - Remove a contact from the group
package groups

import (
	"encoding/json"
	"net/http"

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

// Handler handles group management API requests.
type Handler struct {
	groups   *groupstore.Store
	contacts *contactstore.Store
	logger   *zap.Logger
}

// NewHandler creates a new groups handler.
func NewHandler(groups *groupstore.Store, contacts *contactstore.Store, logger *zap.Logger) *Handler {
	return &Handler{groups: groups, contacts: contacts, logger: logger}
}

// List handles GET /.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := normalize.Status(r.URL.Query().Get("status"))

	groups, err := h.groups.List(r.Context(), status)
	if err != nil {
		h.logger.Error("failed to list groups", zap.Error(err))
		jsonutil.InternalError(w, "Failed to list groups")
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}
	jsonutil.OK(w, map[string]any{"groups": groups})
}

type createPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	LeaderID    *string `json:"leader_id,omitempty"`
	MeetingDay  string  `json:"meeting_day,omitempty"`
	MeetingTime string  `json:"meeting_time,omitempty"`
}

// Create handles POST /.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}
	if normalize.Name(in.Name) == "" {
		jsonutil.BadRequest(w, "name is required")
		return
	}

	grp := models.Group{
		Name:        in.Name,
		Description: htmlsanitize.Sanitize(in.Description),
		MeetingDay:  in.MeetingDay,
		MeetingTime: in.MeetingTime,
	}
	if in.LeaderID != nil {
		leaderID, err := primitive.ObjectIDFromHex(*in.LeaderID)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid leader_id")
			return
		}
		grp.LeaderID = &leaderID
	}

	created, err := h.groups.Create(r.Context(), grp)
	if err != nil {
		h.logger.Error("failed to create group", zap.Error(err))
		jsonutil.BadRequest(w, err.Error())
		return
	}

	h.logger.Info("group created",
		zap.String("group_id", created.ID.Hex()),
		zap.String("name", created.Name))
	jsonutil.Created(w, created)
}

// Get handles GET /{id}. The roster is resolved to full contact
// documents so clients can render names without extra lookups.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.groupID(w, r)
	if !ok {
		return
	}

	grp, err := h.groups.GetByID(r.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Group not found")
			return
		}
		h.logger.Error("failed to load group", zap.String("group_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load group")
		return
	}

	members, err := h.contacts.GetByIDs(r.Context(), grp.MemberIDs)
	if err != nil {
		h.logger.Error("failed to load group members", zap.String("group_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load group")
		return
	}
	if members == nil {
		members = []models.Contact{}
	}

	jsonutil.OK(w, map[string]any{
		"group":   grp,
		"members": members,
	})
}

type updatePayload struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	LeaderID    *string `json:"leader_id,omitempty"`
	MeetingDay  *string `json:"meeting_day,omitempty"`
	MeetingTime *string `json:"meeting_time,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Update handles PATCH /{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.groupID(w, r)
	if !ok {
		return
	}

	var in updatePayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	upd := groupstore.UpdateInput{
		Name:        in.Name,
		MeetingDay:  in.MeetingDay,
		MeetingTime: in.MeetingTime,
		Status:      in.Status,
	}
	if in.Description != nil {
		clean := htmlsanitize.Sanitize(*in.Description)
		upd.Description = &clean
	}
	if in.LeaderID != nil {
		leaderID, err := primitive.ObjectIDFromHex(*in.LeaderID)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid leader_id")
			return
		}
		upd.LeaderID = &leaderID
	}

	if err := h.groups.Update(r.Context(), id, upd); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Group not found")
			return
		}
		jsonutil.BadRequest(w, err.Error())
		return
	}

	grp, err := h.groups.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to reload group", zap.String("group_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load group")
		return
	}
	jsonutil.OK(w, grp)
}

// Delete handles DELETE /{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.groupID(w, r)
	if !ok {
		return
	}

	deleted, err := h.groups.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete group", zap.String("group_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete group")
		return
	}
	if deleted == 0 {
		jsonutil.NotFound(w, "Group not found")
		return
	}

	h.logger.Info("group deleted", zap.String("group_id", id.Hex()))
	jsonutil.NoContent(w)
}

// AddMember handles POST /{id}/members.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.groupID(w, r)
	if !ok {
		return
	}

	var in struct {
		ContactID string `json:"contact_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}
	contactID, err := primitive.ObjectIDFromHex(in.ContactID)
	if err != nil {
		jsonutil.BadRequest(w, "Invalid contact_id")
		return
	}

	// The contact must exist, otherwise the roster silently collects
	// ids that resolve to nothing.
	if _, err := h.contacts.GetByID(r.Context(), contactID); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Contact not found")
			return
		}
		h.logger.Error("failed to check contact", zap.String("contact_id", contactID.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to add member")
		return
	}

	if err := h.groups.AddMember(r.Context(), id, contactID); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Group not found")
			return
		}
		h.logger.Error("failed to add member", zap.String("group_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to add member")
		return
	}

	h.logger.Info("group member added",
		zap.String("group_id", id.Hex()),
		zap.String("contact_id", contactID.Hex()))
	jsonutil.NoContent(w)
}

// RemoveMember handles DELETE /{id}/members/{contactID}.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.groupID(w, r)
	if !ok {
		return
	}
	contactID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "contactID"))
	if err != nil {
		jsonutil.BadRequest(w, "Invalid contact id")
		return
	}

	if err := h.groups.RemoveMember(r.Context(), id, contactID); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Group not found")
			return
		}
		h.logger.Error("failed to remove member", zap.String("group_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to remove member")
		return
	}
	jsonutil.NoContent(w)
}

func (h *Handler) groupID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "Invalid group id")
		return primitive.NilObjectID, false
	}
	return id, true
}
