// Package apilogapi exposes the API request log to administrators.
//
// Endpoints (mounted at /api/ledger):
//   - GET /            - List logged requests (filters, paginated)
//   - GET /summary     - Error counts by class for the last 24 hours
//   - GET /{requestID} - One entry by its X-Request-ID value
package apilogapi

import (
	"net/http"
	"strconv"
	"time"

	apilogstore "github.com/dalemusser/congregate/internal/app/store/apilog"
	"github.com/dalemusser/congregate/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles API log requests.
type Handler struct {
	store  *apilogstore.Store
	logger *zap.Logger
}

// NewHandler creates a new apilogapi handler.
func NewHandler(store *apilogstore.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// List handles GET /.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := apilogstore.ListFilter{
		PathPrefix: q.Get("path_prefix"),
		Method:     q.Get("method"),
		ErrorClass: q.Get("error_class"),
	}
	if v := q.Get("status_min"); v != "" {
		min, err := strconv.Atoi(v)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid status_min")
			return
		}
		filter.StatusCodeMin = min
	}
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	entries, total, err := h.store.List(r.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list api log entries", zap.Error(err))
		jsonutil.InternalError(w, "Failed to list entries")
		return
	}
	if entries == nil {
		entries = []apilogstore.Entry{}
	}
	jsonutil.OK(w, map[string]any{
		"entries": entries,
		"total":   total,
	})
}

// Summary handles GET /summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	since := time.Now().UTC().Add(-24 * time.Hour)
	counts, err := h.store.CountByClass(r.Context(), since)
	if err != nil {
		h.logger.Error("failed to summarize api log", zap.Error(err))
		jsonutil.InternalError(w, "Failed to summarize entries")
		return
	}
	jsonutil.OK(w, map[string]any{
		"since":    since,
		"by_class": counts,
	})
}

// Get handles GET /{requestID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	entry, err := h.store.GetByRequestID(r.Context(), requestID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			jsonutil.NotFound(w, "Entry not found")
			return
		}
		h.logger.Error("failed to load api log entry", zap.String("request_id", requestID), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load entry")
		return
	}
	jsonutil.OK(w, entry)
}
