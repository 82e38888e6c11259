// Package session holds the authenticated token/user pair for the client.
//
// There are no package-level globals: a Store is constructed once and passed
// to everything that makes authenticated requests. Login and Logout are the
// only writers; both persist the change before returning, so a new process
// rehydrates the same session the way a browser rehydrates from its local
// key/value store.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"resolveit/internal/complaint"
	rerrors "resolveit/internal/errors"
)

// Session is the persisted token/user pair.
type Session struct {
	Token string         `json:"token"`
	User  complaint.User `json:"user"`
}

// Store is a thread-safe holder for the current session with file-backed
// persistence.
type Store struct {
	mu      sync.RWMutex
	path    string
	current *Session
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve config dir: %w", err)
	}
	return filepath.Join(dir, "resolveit", "session.json"), nil
}

// NewStore creates a Store backed by the given file and rehydrates any
// previously saved session. A missing or unreadable file simply yields a
// logged-out store.
func NewStore(path string) *Store {
	s := &Store{path: path}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.Token == "" {
		return
	}
	s.current = &sess
}

// Login stores the token/user pair returned by the login endpoint and
// persists it atomically (write temp file, then rename).
func (s *Store) Login(token string, user complaint.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &Session{Token: token, User: user}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Logout clears the in-memory session and removes the session file.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// Current returns the active session, or nil when logged out.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Check validates that a session exists and its token has not expired.
// Returns a SessionExpiredError so callers can run the re-login flow
// without a wasted round trip.
func (s *Store) Check(now time.Time) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return rerrors.NewSessionExpiredError("not logged in")
	}
	exp, err := tokenExpiry(s.current.Token)
	if err != nil {
		// Opaque tokens pass; the backend is the authority.
		return nil
	}
	if !exp.IsZero() && now.After(exp) {
		return rerrors.NewSessionExpiredError(fmt.Sprintf("token expired at %s", exp.Format(time.RFC3339)))
	}
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature. The
// client never trusts the token contents for authorization, only for
// skipping requests that are certain to 401.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, err
	}
	return exp.Time, nil
}
