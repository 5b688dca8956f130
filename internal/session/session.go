package session

import (
	"errors"
	"sync"
)

// ErrPermissionDenied is returned when the current user lacks the permission
// required for an operation.
var ErrPermissionDenied = errors.New("permission denied")

// User is the authenticated identity.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Session holds the authenticated identity, its permission grid and the
// token pair used by the gateway. It is safe for concurrent use.
type Session struct {
	mu           sync.RWMutex
	user         User
	active       bool
	perms        map[string]map[string]bool
	accessToken  string
	refreshToken string
	onLogout     func()
}

func New() *Session {
	return &Session{perms: make(map[string]map[string]bool)}
}

// Begin installs an authenticated identity. The permission grid maps module
// name to the actions allowed in it; the action "*" allows everything in the
// module.
func (s *Session) Begin(u User, perms map[string][]string, accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.active = true
	s.perms = make(map[string]map[string]bool, len(perms))
	for module, actions := range perms {
		set := make(map[string]bool, len(actions))
		for _, a := range actions {
			set[a] = true
		}
		s.perms[module] = set
	}
	s.accessToken = accessToken
	s.refreshToken = refreshToken
}

// CurrentUser returns the authenticated user, if any.
func (s *Session) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.active
}

// ActorName returns the display name recorded in timeline entries.
func (s *Session) ActorName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return "system"
	}
	return s.user.Name
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active && s.accessToken != ""
}

// HasPermission reports whether the current user may perform action in the
// given module.
func (s *Session) HasPermission(module, action string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return false
	}
	set, ok := s.perms[module]
	if !ok {
		return false
	}
	return set[action] || set["*"]
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// SetTokens replaces the token pair after a successful refresh.
func (s *Session) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
}

// OnLogout registers a hook fired when the session is cleared, typically to
// redirect the caller to a login flow.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = fn
}

// Clear forgets the identity and tokens and fires the logout hook. Invoked
// by the gateway when a refresh-and-retry cycle fails.
func (s *Session) Clear() {
	s.mu.Lock()
	s.user = User{}
	s.active = false
	s.perms = make(map[string]map[string]bool)
	s.accessToken = ""
	s.refreshToken = ""
	hook := s.onLogout
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
}
