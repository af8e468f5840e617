package contentapi

import (
	"net/http"

	"github.com/dalemusser/congregate/internal/app/system/apicors"
	"github.com/dalemusser/congregate/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes returns a router with the page builder API endpoints.
//
// Authentication is via API key (Bearer token in Authorization header).
// CORS is permissive (allows any origin) since API key auth is used.
func Routes(h *Handler, apiKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// API CORS - permissive for API key auth
	r.Use(apicors.Middleware())

	// API key authentication
	r.Use(auth.APIKeyAuth(apiKey, logger))

	r.Get("/section-types", h.SectionTypes)

	r.Route("/pages", func(pr chi.Router) {
		pr.Get("/", h.ListPages)
		pr.Post("/", h.CreatePage)
		pr.Route("/{id}", func(ir chi.Router) {
			ir.Get("/", h.GetPage)
			ir.Put("/", h.UpdatePage)
			ir.Delete("/", h.DeletePage)
			ir.Post("/publish", h.Publish)
			ir.Post("/unpublish", h.Unpublish)
		})
	})

	return r
}
