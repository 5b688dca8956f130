package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hr-pipeline/internal/session"
)

func TestTokenStoreIssueAndValidate(t *testing.T) {
	ts := newTokenStore()
	u := session.User{ID: "u1", Name: "admin", Role: "HR Admin"}

	access, refresh := ts.issue(u)
	if access == "" || refresh == "" || access == refresh {
		t.Fatalf("Bad token pair: %q / %q", access, refresh)
	}

	got, ok := ts.userFor(access)
	if !ok || got.ID != "u1" {
		t.Errorf("Access token did not resolve to the user: %v %v", got, ok)
	}
	if _, ok := ts.userFor("bogus"); ok {
		t.Error("Unknown access token accepted")
	}
}

func TestTokenStoreRotateConsumesRefreshToken(t *testing.T) {
	ts := newTokenStore()
	u := session.User{ID: "u1", Name: "admin"}
	_, refresh := ts.issue(u)

	got, ok := ts.rotate(refresh)
	if !ok || got.ID != "u1" {
		t.Fatalf("Rotation failed: %v %v", got, ok)
	}
	if _, ok := ts.rotate(refresh); ok {
		t.Error("Refresh token should be single-use")
	}
}

func TestRequireAuth(t *testing.T) {
	a := &API{auth: newTokenStore()}
	access, _ := a.auth.issue(session.User{ID: "u1", Name: "admin"})

	var seen session.User
	handler := a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		seen = userFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/candidates", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Missing token: expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/candidates", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Bad token: expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/candidates", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Valid token: expected 200, got %d", rec.Code)
	}
	if seen.ID != "u1" {
		t.Errorf("Handler did not see the authenticated user: %+v", seen)
	}
}
