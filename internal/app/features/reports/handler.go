// Package reports provides the dashboard reporting API endpoints.
//
// Endpoints (mounted at /api/reports):
//   - GET /dashboard - Headline counts across the whole tenant
//
// The dashboard aggregates counts from the contact, group, prayer,
// visit, and content stores in a single response.
package reports

import (
	"net/http"
	"time"

	contactstore "github.com/dalemusser/congregate/internal/app/store/contacts"
	contentstore "github.com/dalemusser/congregate/internal/app/store/content"
	groupstore "github.com/dalemusser/congregate/internal/app/store/groups"
	prayerstore "github.com/dalemusser/congregate/internal/app/store/prayer"
	visitstore "github.com/dalemusser/congregate/internal/app/store/visits"
	"github.com/dalemusser/congregate/internal/app/system/jsonutil"
	"go.uber.org/zap"
)

// Handler handles reporting API requests.
type Handler struct {
	contacts *contactstore.Store
	groups   *groupstore.Store
	prayer   *prayerstore.Store
	visits   *visitstore.Store
	content  *contentstore.Store
	logger   *zap.Logger
}

// NewHandler creates a new reports handler.
func NewHandler(
	contacts *contactstore.Store,
	groups *groupstore.Store,
	prayer *prayerstore.Store,
	visits *visitstore.Store,
	content *contentstore.Store,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		contacts: contacts,
		groups:   groups,
		prayer:   prayer,
		visits:   visits,
		content:  content,
		logger:   logger,
	}
}

// Dashboard represents the headline counts for the admin dashboard.
type Dashboard struct {
	ContactsByLifecycle map[string]int64 `json:"contacts_by_lifecycle"`
	NewContacts30Days   int64            `json:"new_contacts_30_days"`
	ActiveGroups        int64            `json:"active_groups"`
	PrayerByStatus      map[string]int64 `json:"prayer_by_status"`
	VisitsByStatus      map[string]int64 `json:"visits_by_status"`
	PagesTotal          int64            `json:"pages_total"`
	PagesPublished      int64            `json:"pages_published"`
}

// ServeDashboard handles GET /dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var d Dashboard
	var err error

	if d.ContactsByLifecycle, err = h.contacts.CountByLifecycle(ctx); err != nil {
		h.logger.Error("failed to count contacts", zap.Error(err))
		jsonutil.InternalError(w, "Failed to build dashboard")
		return
	}
	since := time.Now().UTC().AddDate(0, 0, -30)
	if d.NewContacts30Days, err = h.contacts.CountCreatedSince(ctx, since); err != nil {
		h.logger.Error("failed to count recent contacts", zap.Error(err))
		jsonutil.InternalError(w, "Failed to build dashboard")
		return
	}
	if d.ActiveGroups, err = h.groups.CountActive(ctx); err != nil {
		h.logger.Error("failed to count groups", zap.Error(err))
		jsonutil.InternalError(w, "Failed to build dashboard")
		return
	}
	if d.PrayerByStatus, err = h.prayer.CountByStatus(ctx); err != nil {
		h.logger.Error("failed to count prayer requests", zap.Error(err))
		jsonutil.InternalError(w, "Failed to build dashboard")
		return
	}
	if d.VisitsByStatus, err = h.visits.CountByStatus(ctx); err != nil {
		h.logger.Error("failed to count visits", zap.Error(err))
		jsonutil.InternalError(w, "Failed to build dashboard")
		return
	}
	if d.PagesTotal, err = h.content.CountPages(ctx, false); err != nil {
		h.logger.Error("failed to count pages", zap.Error(err))
		jsonutil.InternalError(w, "Failed to build dashboard")
		return
	}
	if d.PagesPublished, err = h.content.CountPages(ctx, true); err != nil {
		h.logger.Error("failed to count published pages", zap.Error(err))
		jsonutil.InternalError(w, "Failed to build dashboard")
		return
	}

	jsonutil.OK(w, d)
}
