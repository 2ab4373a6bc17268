package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Yamanxl9/employee-management-system/internal/domain/audit"
	"github.com/Yamanxl9/employee-management-system/internal/domain/auth"
	"github.com/Yamanxl9/employee-management-system/internal/platform/config"
	"github.com/Yamanxl9/employee-management-system/internal/platform/db"
)

// testRouter builds the full router against a lazy Mongo client. No server is
// contacted unless a handler actually runs a query.
func testRouter(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	client, database, err := db.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("client setup failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(cfg, client, database, audit.New(database, logger), logger)
}

func testConfig() config.Config {
	return config.Config{
		Addr:               ":0",
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "employees_test",
		JWTSecret:          "router-test-secret",
		TokenTTL:           time.Hour,
		Environment:        "development",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1000,
		ExportMaxRows:      100,
	}
}

func TestRouterPublicEndpoints(t *testing.T) {
	router := testRouter(t, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/healthz status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"status":"ok"`) {
		t.Fatalf("/healthz body = %q, want status ok with a database field", body)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/test", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/api/test status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Request-Id"); got == "" {
		t.Fatalf("expected request id header on every response")
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("security headers missing, X-Content-Type-Options = %q", got)
	}
}

func TestRouterProtectsAPIEndpoints(t *testing.T) {
	router := testRouter(t, testConfig())

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/search"},
		{http.MethodGet, "/api/statistics"},
		{http.MethodGet, "/api/filters"},
		{http.MethodPost, "/api/employees"},
		{http.MethodPost, "/api/export-filtered-results"},
		{http.MethodGet, "/api/audit"},
	}
	for _, tc := range protected {
		tc := tc
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRouterAuditRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t, cfg)

	token, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{UserID: "u2", Username: "viewer", Role: "viewer"}, time.Hour)
	if err != nil {
		t.Fatalf("token issue failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("viewer on /api/audit status = %d, want 403", rec.Code)
	}
}
