package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Yamanxl9/employee-management-system/internal/domain/auth"
)

const testSecret = "middleware-test-secret"

func issueToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{
		UserID:   "u1",
		Username: "admin",
		Role:     role,
	}, time.Hour)
	if err != nil {
		t.Fatalf("token issue failed: %v", err)
	}
	return token
}

func TestAuthAttachesUser(t *testing.T) {
	var seen auth.UserContext
	var ok bool
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, ok = GetUser(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "admin"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !ok {
		t.Fatalf("expected user on context")
	}
	if seen.Username != "admin" || seen.Role != "admin" {
		t.Fatalf("unexpected user context: %+v", seen)
	}
}

func TestAuthIgnoresInvalidToken(t *testing.T) {
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatalf("invalid token must not attach a user")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("attach middleware must not reject, got %d", rec.Code)
	}
}

func TestRequireAuth(t *testing.T) {
	protected := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous request should be rejected, got %d", rec.Code)
	}

	authed := context.WithValue(context.Background(), ctxKeyUser, auth.UserContext{UserID: "u1"})
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil).WithContext(authed)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("authenticated request should pass, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	adminOnly := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	viewer := context.WithValue(context.Background(), ctxKeyUser, auth.UserContext{UserID: "u2", Role: "viewer"})
	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil).WithContext(viewer)
	rec := httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("viewer should be forbidden, got %d", rec.Code)
	}

	admin := context.WithValue(context.Background(), ctxKeyUser, auth.UserContext{UserID: "u1", Role: "admin"})
	req = httptest.NewRequest(http.MethodGet, "/api/audit", nil).WithContext(admin)
	rec = httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("admin should pass, got %d", rec.Code)
	}
}
