package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"hr-pipeline/internal/session"

	"github.com/google/uuid"
)

const accessTokenTTL = 15 * time.Minute

// tokenStore issues and validates bearer tokens for the reference server.
// Access tokens expire so the client's refresh path gets exercised in
// development; refresh tokens live until rotated.
type tokenStore struct {
	mu       sync.Mutex
	access   map[string]accessToken
	refresh  map[string]session.User
	username string
	password string
}

type accessToken struct {
	user      session.User
	expiresAt time.Time
}

func newTokenStore() *tokenStore {
	username := os.Getenv("HR_ADMIN_USER")
	password := os.Getenv("HR_ADMIN_PASSWORD")
	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
		log.Println("Warning: HR_ADMIN_PASSWORD not set, using the development default")
	}
	return &tokenStore{
		access:   make(map[string]accessToken),
		refresh:  make(map[string]session.User),
		username: username,
		password: password,
	}
}

func (ts *tokenStore) issue(u session.User) (access, refresh string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	access = uuid.New().String()
	refresh = uuid.New().String()
	ts.access[access] = accessToken{user: u, expiresAt: time.Now().Add(accessTokenTTL)}
	ts.refresh[refresh] = u
	return access, refresh
}

func (ts *tokenStore) userFor(access string) (session.User, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	tok, ok := ts.access[access]
	if !ok || time.Now().After(tok.expiresAt) {
		delete(ts.access, access)
		return session.User{}, false
	}
	return tok.user, true
}

// rotate consumes a refresh token and issues a new pair.
func (ts *tokenStore) rotate(refresh string) (session.User, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	u, ok := ts.refresh[refresh]
	if !ok {
		return session.User{}, false
	}
	delete(ts.refresh, refresh)
	return u, true
}

// seedPermissions is the permission grid granted to the reference admin.
func seedPermissions() map[string][]string {
	return map[string][]string{
		"candidates":   {"*"},
		"requirements": {"*"},
	}
}

// LoginHandler authenticates a user and returns a token pair
// @Summary Login
// @Description Authenticate with username/password and receive access + refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (a *API) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Username != a.auth.username || req.Password != a.auth.password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	user := session.User{ID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(req.Username)).String(), Name: req.Username, Role: "HR Admin"}
	access, refresh := a.auth.issue(user)
	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         user,
		"permissions":  seedPermissions(),
	})
}

// RefreshHandler rotates a refresh token
// @Summary Refresh tokens
// @Description Exchange a refresh token for a new access + refresh pair
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (a *API) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	user, ok := a.auth.rotate(req.RefreshToken)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	access, refresh := a.auth.issue(user)
	writeJSON(w, http.StatusOK, map[string]string{
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

type userKey struct{}

func withUser(ctx context.Context, u session.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// userFrom returns the authenticated user stored by requireAuth.
func userFrom(ctx context.Context) session.User {
	u, _ := ctx.Value(userKey{}).(session.User)
	return u
}

// requireAuth validates the bearer token and stashes the user in the request
// context.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, ok := a.auth.userFor(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r.WithContext(withUser(r.Context(), user)))
	}
}
