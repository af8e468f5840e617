package apilogapi

import (
	"net/http"

	"github.com/dalemusser/congregate/internal/app/system/apicors"
	"github.com/dalemusser/congregate/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes returns the router for the API request log.
func Routes(h *Handler, apiKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(apicors.Middleware())
	r.Use(auth.APIKeyAuth(apiKey, logger))

	r.Get("/", h.List)
	r.Get("/summary", h.Summary)
	r.Get("/{requestID}", h.Get)

	return r
}
