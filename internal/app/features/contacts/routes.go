package contacts

import (
	"net/http"

	"github.com/dalemusser/congregate/internal/app/system/apicors"
	"github.com/dalemusser/congregate/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes returns the router for the contacts API.
func Routes(h *Handler, apiKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(apicors.Middleware())
	r.Use(auth.APIKeyAuth(apiKey, logger))

	r.Get("/", h.List)
	r.Post("/", h.Create)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/lifecycle", h.SetLifecycle)
	})

	return r
}
