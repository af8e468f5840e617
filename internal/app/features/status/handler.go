// Package status provides an operational status endpoint for
// administrators. Unlike the public health probes it reports runtime
// detail, so it sits behind the API key.
package status

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/dalemusser/congregate/internal/app/system/jsonutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

var startTime = time.Now()

// Handler holds dependencies for the status endpoint.
type Handler struct {
	client   *mongo.Client
	database string
	baseURL  string
	logger   *zap.Logger
}

// NewHandler creates a new status handler.
func NewHandler(client *mongo.Client, database, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{client: client, database: database, baseURL: baseURL, logger: logger}
}

// Report is the status endpoint response.
type Report struct {
	Uptime     string `json:"uptime"`
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	BaseURL    string `json:"base_url,omitempty"`

	Mongo MongoStatus `json:"mongo"`
}

// MongoStatus describes database connectivity.
type MongoStatus struct {
	Connected bool   `json:"connected"`
	Database  string `json:"database"`
	Version   string `json:"version,omitempty"`
}

// ServeStatus handles GET /.
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	report := Report{
		Uptime:     time.Since(startTime).Round(time.Second).String(),
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		BaseURL:    h.baseURL,
		Mongo:      MongoStatus{Database: h.database},
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.client.Ping(ctx, readpref.Primary()); err != nil {
		h.logger.Warn("status: mongodb ping failed", zap.Error(err))
	} else {
		report.Mongo.Connected = true
		report.Mongo.Version = h.serverVersion(ctx)
	}

	jsonutil.OK(w, report)
}

func (h *Handler) serverVersion(ctx context.Context) string {
	var info struct {
		Version string `bson:"version"`
	}
	err := h.client.Database("admin").
		RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}}).
		Decode(&info)
	if err != nil {
		// DocumentDB and restricted users may not allow buildInfo.
		return ""
	}
	return info.Version
}
