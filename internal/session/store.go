// Package session holds the authenticated identity for the lifetime of one
// client instance. Nothing is persisted: closing the client is an implicit
// logout, and concurrent instances never see each other's session.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"railcross"
)

// Store is the single process-wide session holder. It is safe for use from
// the poll goroutine and gateway callbacks.
type Store struct {
	mu      sync.RWMutex
	current railcross.Session
	present bool

	now func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Set stores the token together with all profile fields in one step.
// If the session carries no explicit expiry, the token's exp claim (when
// readable) supplies one.
func (s *Store) Set(sess railcross.Session) {
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = tokenExpiry(sess.Token)
	}
	s.mu.Lock()
	s.current = sess
	s.present = true
	s.mu.Unlock()
}

// Clear removes the token and every profile field in one step. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = railcross.Session{}
	s.present = false
	s.mu.Unlock()
}

// Get returns a snapshot of the current session, if one exists.
func (s *Store) Get() (railcross.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.present
}

// Token returns the raw session token, if one exists.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present || s.current.Token == "" {
		return "", false
	}
	return s.current.Token, true
}

// IsAuthenticated reports whether a usable token is present. A token past its
// expiry does not count: the server would refuse it anyway, so the client
// treats it as already logged out.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present || s.current.Token == "" {
		return false
	}
	if !s.current.ExpiresAt.IsZero() && !s.now().Before(s.current.ExpiresAt) {
		return false
	}
	return true
}

// tokenExpiry reads the exp claim without verifying the signature. Only the
// server can verify it; the client just wants the deadline for local checks.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
