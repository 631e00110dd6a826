// Package session is the single source of truth for "is a user
// authenticated" and "who are they". The session lives as a JSON file in the
// user's config dir; the token is additionally mirrored into an auth_token
// cookie by the gateway so the route guard can decide before any page code
// runs. Reads pick up external file changes, which keeps several concurrent
// clients eventually consistent the way browser tabs are.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nutriscan/nutriscan/internal/model"
)

const (
	// CookieName is the cookie consumed by the gateway route guard.
	CookieName = "auth_token"

	// CookieMaxAge matches the backend token lifetime, roughly 30 days.
	CookieMaxAge = 30 * 24 * time.Hour
)

// Store persists a Session and serves synchronous reads. The zero value is
// not usable; construct with NewStore.
type Store struct {
	mu      sync.Mutex
	path    string
	cur     *model.Session
	modTime time.Time
}

// NewStore opens (or prepares) the session file at path. A missing or
// unreadable file simply means "not authenticated".
func NewStore(path string) *Store {
	s := &Store{path: path}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()
	return s
}

// Login persists the token and user. The write is atomic (temp file +
// rename) so a concurrent reader never sees a torn session.
func (s *Store) Login(sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	s.cur = &sess
	if fi, err := os.Stat(s.path); err == nil {
		s.modTime = fi.ModTime()
	}
	return nil
}

// Logout clears the stored session. Idempotent: logging out twice, or
// without ever logging in, is not an error.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = nil
	s.modTime = time.Time{}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// CurrentUser returns the stored user, or nil when not authenticated.
func (s *Store) CurrentUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()
	if s.cur == nil {
		return nil
	}
	u := s.cur.User
	return &u
}

// CurrentToken returns the stored bearer token, or "" when absent.
// Satisfies api.TokenSource.
func (s *Store) CurrentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()
	if s.cur == nil {
		return ""
	}
	return s.cur.Token
}

// IsAuthenticated reports whether both a token and a user are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()
	return s.cur != nil && s.cur.Token != "" && s.cur.User.ID != 0
}

// Cookie builds the auth_token mirror cookie for the current token. Returns
// nil when not authenticated.
func (s *Store) Cookie() *http.Cookie {
	token := s.CurrentToken()
	if token == "" {
		return nil
	}
	return NewCookie(token)
}

// NewCookie builds the auth_token cookie for an arbitrary token value.
func NewCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds the clearing counterpart of NewCookie.
func ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	}
}

// reloadLocked re-reads the session file when another process (or an earlier
// run) changed it since our last read. Last writer wins; both writers would
// be converging on the same login/logout outcome anyway.
func (s *Store) reloadLocked() {
	fi, err := os.Stat(s.path)
	if err != nil {
		if s.cur != nil && errors.Is(err, os.ErrNotExist) {
			// another client logged out
			s.cur = nil
			s.modTime = time.Time{}
		}
		return
	}
	if s.cur != nil && fi.ModTime().Equal(s.modTime) {
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return
	}
	s.cur = &sess
	s.modTime = fi.ModTime()
}
