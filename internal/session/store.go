// Package session issues and validates the ephemeral bearer tokens that
// gate mutating API calls.
//
// Tokens live only in process memory; a restart invalidates every
// outstanding token and forces re-authentication. That is accepted
// behavior for a single-admin dashboard.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is the token lifetime used when none is configured.
const DefaultTTL = 30 * time.Minute

// Token is an issued bearer credential with its absolute expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Store is the session-store contract: issue a token, validate a presented
// one, or revoke it early.
type Store interface {
	Issue() (Token, error)
	Validate(token string) bool
	Invalidate(token string)
}

// MemoryStore keeps active tokens in an in-memory expiring map keyed by
// token value. Several unexpired tokens may be valid at once, so a second
// login no longer silently kills an in-flight session.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time // overridable in tests

	mu     sync.Mutex
	active map[string]time.Time // token -> expiry
}

// NewMemoryStore creates a store issuing tokens with the given ttl.
// A non-positive ttl falls back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:    ttl,
		now:    time.Now,
		active: make(map[string]time.Time),
	}
}

// Issue mints a 256-bit random opaque token valid for the store's TTL.
func (s *MemoryStore) Issue() (Token, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return Token{}, fmt.Errorf("session: generate token: %w", err)
	}
	t := Token{
		Value:     hex.EncodeToString(b),
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.active[t.Value] = t.ExpiresAt
	return t, nil
}

// Validate reports whether token is known and unexpired. Expired entries
// are dropped on sight.
func (s *MemoryStore) Validate(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.active[token]
	if !ok {
		return false
	}
	if !s.now().Before(exp) {
		delete(s.active, token)
		return false
	}
	return true
}

// Invalidate revokes a token before its expiry.
func (s *MemoryStore) Invalidate(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, token)
}

// purgeLocked drops expired entries. Caller holds s.mu.
func (s *MemoryStore) purgeLocked() {
	now := s.now()
	for t, exp := range s.active {
		if !now.Before(exp) {
			delete(s.active, t)
		}
	}
}

// Verify *MemoryStore satisfies Store at compile time.
var _ Store = (*MemoryStore)(nil)
