// Package pages serves published pages to the public site.
//
// Endpoints (mounted at /pages):
//   - GET /           - List published pages (slug, title, seo meta)
//   - GET /{slug}     - A published page with its ordered sections
//
// These endpoints are unauthenticated and CORS-open so the public website
// can render pages directly from them. Drafts are invisible here; they are
// only reachable through the authenticated builder API.
package pages

import (
	"net/http"

	contentstore "github.com/dalemusser/congregate/internal/app/store/content"
	"github.com/dalemusser/congregate/internal/app/system/apicors"
	"github.com/dalemusser/congregate/internal/app/system/jsonutil"
	"github.com/dalemusser/congregate/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves published page content.
type Handler struct {
	store  *contentstore.Store
	logger *zap.Logger
}

// NewHandler creates a new public pages handler.
func NewHandler(store *contentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Routes returns a router with the public page endpoints.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(apicors.Middleware())
	r.Get("/", h.List)
	r.Get("/{slug}", h.GetBySlug)
	return r
}

type pageSummary struct {
	Title   string         `json:"title"`
	Slug    string         `json:"slug"`
	SEOMeta models.SEOMeta `json:"seo_meta"`
}

type sectionView struct {
	Type  string         `json:"type"`
	Props map[string]any `json:"props"`
}

// List handles GET /. Only published pages appear.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.ListPages(r.Context())
	if err != nil {
		h.logger.Error("failed to list pages", zap.Error(err))
		jsonutil.InternalError(w, "Failed to list pages")
		return
	}

	out := make([]pageSummary, 0, len(all))
	for _, p := range all {
		if !p.IsPublished() {
			continue
		}
		out = append(out, pageSummary{Title: p.Title, Slug: p.Slug, SEOMeta: p.SEOMeta})
	}
	jsonutil.OK(w, map[string]any{"pages": out})
}

// GetBySlug handles GET /{slug}. Drafts return 404, same as missing pages,
// so slugs don't leak unpublished content.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, err := h.store.GetBySlug(r.Context(), slug)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Page not found")
			return
		}
		h.logger.Error("failed to load page", zap.String("slug", slug), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load page")
		return
	}
	if !page.IsPublished() {
		jsonutil.NotFound(w, "Page not found")
		return
	}

	sections, err := h.store.GetSections(r.Context(), page.ID)
	if err != nil {
		h.logger.Error("failed to load sections", zap.String("slug", slug), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load page")
		return
	}

	views := make([]sectionView, 0, len(sections))
	for _, s := range sections {
		props := s.Props
		if props == nil {
			props = map[string]any{}
		}
		views = append(views, sectionView{Type: string(s.Type), Props: props})
	}

	jsonutil.OK(w, map[string]any{
		"page":     pageSummary{Title: page.Title, Slug: page.Slug, SEOMeta: page.SEOMeta},
		"sections": views,
	})
}
