// Package apilog logs failed API requests to MongoDB so operators can
// debug integration problems without raising the log level.
package apilog

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	apilogstore "github.com/dalemusser/congregate/internal/app/store/apilog"
	"github.com/dalemusser/congregate/internal/app/system/network"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds configuration for the API log middleware.
type Config struct {
	Store  *apilogstore.Store
	Logger *zap.Logger

	// MaxBodyPreview is the maximum number of bytes of the request body
	// to keep with the entry. 0 disables body capture.
	MaxBodyPreview int

	// OnlyErrors restricts logging to requests that finish with
	// status >= 400.
	OnlyErrors bool
}

// DefaultConfig returns a Config that records failed requests with a
// short body preview.
func DefaultConfig(store *apilogstore.Store, logger *zap.Logger) Config {
	return Config{
		Store:          store,
		Logger:         logger,
		MaxBodyPreview: 500,
		OnlyErrors:     true,
	}
}

// Middleware returns HTTP middleware that logs requests per cfg. Every
// response carries an X-Request-ID header so clients can report the id
// alongside a failure.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()
			w.Header().Set("X-Request-ID", requestID)

			var bodyPreview string
			var bodySize int64
			if cfg.MaxBodyPreview > 0 && r.Body != nil && r.ContentLength > 0 {
				body, err := io.ReadAll(r.Body)
				if err == nil {
					bodySize = int64(len(body))
					preview := string(body)
					if len(preview) > cfg.MaxBodyPreview {
						preview = preview[:cfg.MaxBodyPreview] + "..."
					}
					bodyPreview = preview
					r.Body = io.NopCloser(bytes.NewReader(body))
				}
			}

			start := time.Now()
			wrapped := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			duration := time.Since(start)

			if cfg.OnlyErrors && wrapped.statusCode < 400 {
				return
			}

			entry := apilogstore.Entry{
				RequestID:          requestID,
				ClientRequestID:    r.Header.Get("X-Request-ID"),
				Method:             r.Method,
				Path:               r.URL.Path,
				Query:              r.URL.RawQuery,
				RemoteIP:           network.GetClientIP(r),
				RequestBodySize:    bodySize,
				RequestBodyPreview: bodyPreview,
				RequestContentType: r.Header.Get("Content-Type"),
				StatusCode:         wrapped.statusCode,
				ResponseSize:       wrapped.bytesWritten,
				ErrorClass:         classify(wrapped.statusCode),
				DurationMs:         float64(duration.Microseconds()) / 1000.0,
				StartedAt:          start.UTC(),
			}

			// Persist off the request path so a slow insert never
			// delays the response.
			go func() {
				storeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := cfg.Store.Create(storeCtx, entry); err != nil {
					cfg.Logger.Error("failed to store api log entry",
						zap.String("request_id", requestID),
						zap.Error(err))
				}
			}()
		})
	}
}

func classify(status int) string {
	switch {
	case status < 400:
		return ""
	case status == http.StatusBadRequest:
		return "validation"
	case status == http.StatusUnauthorized:
		return "auth"
	case status == http.StatusForbidden:
		return "forbidden"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusConflict:
		return "conflict"
	case status >= 500:
		return "internal"
	default:
		return "client_error"
	}
}

// responseWrapper captures the status code and bytes written.
type responseWrapper struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWrapper) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Flush implements http.Flusher.
func (rw *responseWrapper) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

