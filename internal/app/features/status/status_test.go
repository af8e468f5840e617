package status

import (
	"net/http"
	"testing"

	"github.com/dalemusser/congregate/internal/testutil"
	"go.uber.org/zap"
)

func TestServeStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db.Client(), db.Name(), "http://localhost:8080", zap.NewNop())
	router := Routes(h, testutil.TestAPIKey, zap.NewNop())

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAPIRequest(http.MethodGet, "/", nil))
	rec.AssertStatus(t, http.StatusOK)

	var report Report
	rec.DecodeJSON(t, &report)
	if !report.Mongo.Connected {
		t.Error("Mongo.Connected = false, want true against a live database")
	}
	if report.Mongo.Database != db.Name() {
		t.Errorf("Mongo.Database = %q, want %q", report.Mongo.Database, db.Name())
	}
	if report.GoVersion == "" {
		t.Error("GoVersion should be set")
	}
}

func TestServeStatus_AuthRequired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db.Client(), db.Name(), "", zap.NewNop())
	router := Routes(h, testutil.TestAPIKey, zap.NewNop())

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}
