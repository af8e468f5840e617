// Package settingsapi provides the tenant settings API endpoints.
//
// Endpoints (mounted at /api/settings):
//   - GET /  - Current tenant settings (defaults until first save)
//   - PUT /  - Replace the tenant settings document
//
// Settings are a singleton per deployment, stored in the
// tenant_settings collection.
package settingsapi

import (
	"encoding/json"
	"net/http"

	settingsstore "github.com/dalemusser/congregate/internal/app/store/settings"
	"github.com/dalemusser/congregate/internal/app/system/htmlsanitize"
	"github.com/dalemusser/congregate/internal/app/system/jsonutil"
	"github.com/dalemusser/congregate/internal/app/system/normalize"
	"github.com/dalemusser/congregate/internal/app/system/timezones"
	"github.com/dalemusser/congregate/internal/domain/models"
	"go.uber.org/zap"
)

// Handler handles tenant settings API requests.
type Handler struct {
	store  *settingsstore.Store
	logger *zap.Logger
}

// NewHandler creates a new settingsapi handler.
func NewHandler(store *settingsstore.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Get handles GET /.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load settings", zap.Error(err))
		jsonutil.InternalError(w, "Failed to load settings")
		return
	}
	jsonutil.OK(w, settings)
}

// Save handles PUT /. The payload replaces the whole document, so
// clients send back every field they want to keep.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var in models.TenantSettings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	in.Name = normalize.Name(in.Name)
	if in.Name == "" {
		jsonutil.BadRequest(w, "name is required")
		return
	}
	in.ContactEmail = normalize.Email(in.ContactEmail)
	in.Description = htmlsanitize.Sanitize(in.Description)
	if in.TimeZone == "" {
		in.TimeZone = models.DefaultTimeZone
	} else if !timezones.Valid(in.TimeZone) {
		jsonutil.BadRequest(w, "Unknown time zone: "+in.TimeZone)
		return
	}
	if in.PrimaryColor == "" {
		in.PrimaryColor = models.DefaultPrimaryColor
	}
	if in.SecondaryColor == "" {
		in.SecondaryColor = models.DefaultSecondaryColor
	}

	if err := h.store.Save(r.Context(), in); err != nil {
		h.logger.Error("failed to save settings", zap.Error(err))
		jsonutil.InternalError(w, "Failed to save settings")
		return
	}

	saved, err := h.store.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to reload settings", zap.Error(err))
		jsonutil.InternalError(w, "Failed to load settings")
		return
	}

	h.logger.Info("tenant settings saved", zap.String("name", saved.Name))
	jsonutil.OK(w, saved)
}
