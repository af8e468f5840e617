// Package contentapi provides the page builder API endpoints.
//
// Endpoints (mounted at /api/content):
//   - GET    /pages                  - List pages
//   - POST   /pages                  - Create a page with its sections
//   - GET    /pages/{id}             - Get a page and its ordered sections
//   - PUT    /pages/{id}             - Replace a page's fields and section list
//   - POST   /pages/{id}/publish     - Publish a page
//   - POST   /pages/{id}/unpublish   - Return a page to draft
//   - DELETE /pages/{id}             - Delete a page and its sections
//   - GET    /section-types          - List section types with default props
//
// All editing goes through the domain editor, so section order stays
// contiguous and new sections start from their type's default props.
package contentapi

import (
	"encoding/json"
	"errors"
	"net/http"

	contentstore "github.com/dalemusser/congregate/internal/app/store/content"
	"github.com/dalemusser/congregate/internal/app/system/htmlsanitize"
	"github.com/dalemusser/congregate/internal/app/system/jsonutil"
	"github.com/dalemusser/congregate/internal/domain/content"
	"github.com/dalemusser/congregate/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles page builder API requests.
type Handler struct {
	store  *contentstore.Store
	logger *zap.Logger
}

// NewHandler creates a new contentapi handler.
func NewHandler(store *contentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

type sectionPayload struct {
	// ID is the hex id of a persisted section. Present means "keep this
	// section"; absent means "add a new one of this type".
	ID    string         `json:"id,omitempty"`
	Type  string         `json:"type"`
	Props map[string]any `json:"props,omitempty"`
}

type savePayload struct {
	Title   string         `json:"title"`
	Slug    string         `json:"slug"`
	SEOMeta models.SEOMeta `json:"seo_meta"`
	// Publish makes the page live on first save. Ignored on updates;
	// publish state changes only through the publish endpoints.
	Publish  bool             `json:"publish,omitempty"`
	Sections []sectionPayload `json:"sections"`
}

type sectionResponse struct {
	ID    string         `json:"id"`
	Type  string         `json:"type"`
	Order int            `json:"order"`
	Props map[string]any `json:"props"`
}

type pageResponse struct {
	Page     models.Page       `json:"page"`
	Sections []sectionResponse `json:"sections"`
}

// ListPages handles GET /pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.store.ListPages(r.Context())
	if err != nil {
		h.logger.Error("failed to list pages", zap.Error(err))
		jsonutil.InternalError(w, "Failed to list pages")
		return
	}
	if pages == nil {
		pages = []models.Page{}
	}
	jsonutil.OK(w, map[string]any{"pages": pages})
}

// GetPage handles GET /pages/{id}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pageID(w, r)
	if !ok {
		return
	}

	page, err := h.store.GetPage(r.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Page not found")
			return
		}
		h.logger.Error("failed to load page", zap.String("page_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load page")
		return
	}

	sections, err := h.store.GetSections(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load sections", zap.String("page_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load page")
		return
	}

	jsonutil.OK(w, toPageResponse(page, sections))
}

// CreatePage handles POST /pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var in savePayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	ed := content.New(h.store)
	ed.SetPublished(in.Publish)
	if err := h.applyAndSave(w, r, ed, in); err != nil {
		return
	}

	page := ed.Page()
	h.logger.Info("page created",
		zap.String("page_id", page.ID.Hex()),
		zap.String("slug", page.Slug),
		zap.Bool("published", page.IsPublished()))

	sections, err := h.store.GetSections(r.Context(), page.ID)
	if err != nil {
		h.logger.Error("failed to reload sections", zap.String("page_id", page.ID.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load saved page")
		return
	}
	jsonutil.Created(w, toPageResponse(page, sections))
}

// UpdatePage handles PUT /pages/{id}.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pageID(w, r)
	if !ok {
		return
	}

	var in savePayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	page, err := h.store.GetPage(r.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Page not found")
			return
		}
		h.logger.Error("failed to load page", zap.String("page_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load page")
		return
	}
	existing, err := h.store.GetSections(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load sections", zap.String("page_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load page")
		return
	}

	ed := content.Load(h.store, page, existing)
	if err := h.applyAndSave(w, r, ed, in); err != nil {
		return
	}

	saved := ed.Page()
	sections, err := h.store.GetSections(r.Context(), saved.ID)
	if err != nil {
		h.logger.Error("failed to reload sections", zap.String("page_id", saved.ID.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load saved page")
		return
	}
	jsonutil.OK(w, toPageResponse(saved, sections))
}

// applyAndSave pushes the payload through the editor and saves. On failure
// it writes the error response and returns a non-nil error.
func (h *Handler) applyAndSave(w http.ResponseWriter, r *http.Request, ed *content.Editor, in savePayload) error {
	ed.SetTitle(in.Title)
	if in.Slug != "" {
		ed.SetSlug(in.Slug)
	} else {
		ed.GenerateSlug()
	}
	ed.SetSEOMeta(in.SEOMeta)

	if err := h.applySections(ed, in.Sections); err != nil {
		if errors.Is(err, content.ErrUnknownSectionType) {
			jsonutil.BadRequest(w, err.Error())
			return err
		}
		h.logger.Error("failed to apply sections", zap.Error(err))
		jsonutil.InternalError(w, "Failed to apply sections")
		return err
	}

	// Slug collisions surface as a clean 409 instead of a driver error.
	taken, err := h.store.SlugExistsForOther(r.Context(), ed.Page().Slug, ed.Page().ID)
	if err != nil {
		h.logger.Error("failed to check slug", zap.Error(err))
		jsonutil.InternalError(w, "Failed to save page")
		return err
	}
	if taken {
		jsonutil.Error(w, http.StatusConflict, "A page with this slug already exists")
		return errors.New("slug conflict")
	}

	if err := ed.Save(r.Context()); err != nil {
		switch {
		case errors.Is(err, content.ErrTitleRequired), errors.Is(err, content.ErrSlugRequired):
			jsonutil.BadRequest(w, err.Error())
		default:
			h.logger.Error("failed to save page", zap.Error(err))
			jsonutil.InternalError(w, "Failed to save page")
		}
		return err
	}
	return nil
}

// applySections reconciles the editor's buffer with the payload's section
// list: listed persisted sections are kept (props merged), new entries are
// added with default props, unlisted ones are removed, and the final order
// follows the payload.
func (h *Handler) applySections(ed *content.Editor, items []sectionPayload) error {
	existing := make(map[string]bool)
	for _, s := range ed.Sections() {
		existing[s.TempID] = true
	}

	keep := make(map[string]bool)
	order := make([]string, 0, len(items))
	for _, item := range items {
		props := sanitizeProps(item.Props)

		if item.ID != "" && existing[item.ID] {
			if len(props) > 0 {
				if err := ed.UpdateSectionProps(item.ID, props); err != nil {
					return err
				}
			}
			keep[item.ID] = true
			order = append(order, item.ID)
			continue
		}

		tempID, err := ed.AddSection(models.SectionType(item.Type))
		if err != nil {
			return err
		}
		if len(props) > 0 {
			if err := ed.UpdateSectionProps(tempID, props); err != nil {
				return err
			}
		}
		keep[tempID] = true
		order = append(order, tempID)
	}

	for id := range existing {
		if !keep[id] {
			ed.RemoveSection(id)
		}
	}

	for dst, tempID := range order {
		src := -1
		for i, s := range ed.Sections() {
			if s.TempID == tempID {
				src = i
				break
			}
		}
		if src < 0 || src == dst {
			continue
		}
		if err := ed.Reorder(src, dst); err != nil {
			return err
		}
	}
	return nil
}

// Publish handles POST /pages/{id}/publish.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublishState(w, r, true)
}

// Unpublish handles POST /pages/{id}/unpublish.
func (h *Handler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublishState(w, r, false)
}

func (h *Handler) setPublishState(w http.ResponseWriter, r *http.Request, publish bool) {
	id, ok := h.pageID(w, r)
	if !ok {
		return
	}

	var err error
	if publish {
		err = h.store.Publish(r.Context(), id)
	} else {
		err = h.store.Unpublish(r.Context(), id)
	}
	if err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Page not found")
			return
		}
		h.logger.Error("failed to change publish state",
			zap.String("page_id", id.Hex()),
			zap.Bool("publish", publish),
			zap.Error(err))
		jsonutil.InternalError(w, "Failed to change publish state")
		return
	}

	page, err := h.store.GetPage(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to reload page", zap.String("page_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load page")
		return
	}
	h.logger.Info("publish state changed",
		zap.String("page_id", id.Hex()),
		zap.Bool("published", page.IsPublished()))
	jsonutil.OK(w, map[string]any{"page": page})
}

// DeletePage handles DELETE /pages/{id}.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pageID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeletePage(r.Context(), id); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Page not found")
			return
		}
		h.logger.Error("failed to delete page", zap.String("page_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete page")
		return
	}

	h.logger.Info("page deleted", zap.String("page_id", id.Hex()))
	jsonutil.NoContent(w)
}

// SectionTypes handles GET /section-types. The builder UI uses this to
// render its "add section" palette.
func (h *Handler) SectionTypes(w http.ResponseWriter, r *http.Request) {
	types := models.AllSectionTypes()
	out := make([]map[string]any, 0, len(types))
	for _, t := range types {
		props, err := content.DefaultProps(t)
		if err != nil {
			h.logger.Error("failed to build default props", zap.String("type", string(t)), zap.Error(err))
			jsonutil.InternalError(w, "Failed to list section types")
			return
		}
		out = append(out, map[string]any{
			"type":          string(t),
			"default_props": props,
		})
	}
	jsonutil.OK(w, map[string]any{"section_types": out})
}

func (h *Handler) pageID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "Invalid page id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func toPageResponse(page models.Page, sections []models.PageSection) pageResponse {
	out := pageResponse{Page: page, Sections: make([]sectionResponse, 0, len(sections))}
	for _, s := range sections {
		props := s.Props
		if props == nil {
			props = map[string]any{}
		}
		out.Sections = append(out.Sections, sectionResponse{
			ID:    s.ID.Hex(),
			Type:  string(s.Type),
			Order: s.Order,
			Props: props,
		})
	}
	return out
}

// sanitizeProps strips dangerous HTML from every string value in the props
// tree. Rich text props come straight from the builder UI, so they get the
// same treatment as any other user-generated content.
func sanitizeProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case string:
		return htmlsanitize.Sanitize(val)
	case map[string]any:
		return sanitizeProps(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = sanitizeValue(item)
		}
		return out
	default:
		return v
	}
}
