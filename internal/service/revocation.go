package service

import (
	"context"
	"sync"
	"time"
)

// RevocationRegistry tracks refresh tokens that may no longer be redeemed.
// A Revoke that returns before an IsRevoked begins must be observed by it,
// from any goroutine.
type RevocationRegistry interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// RevocationSet is the in-process registry: a mutex-guarded set of revoked
// token strings. Entries carry the token's own expiry so the set does not
// grow forever; once a refresh token could no longer be redeemed anyway its
// entry is swept.
type RevocationSet struct {
	mu           sync.Mutex
	revoked      map[string]time.Time
	now          func() time.Time
	sweepCounter int // revocations since the last sweep; triggers sweep every 100
}

func NewRevocationSet() *RevocationSet {
	return &RevocationSet{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke is an idempotent insert. Tokens that were never valid are accepted;
// denying garbage costs nothing and logout must not fail on bad input.
func (s *RevocationSet) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[token] = expiresAt

	s.sweepCounter++
	if s.sweepCounter >= 100 {
		s.sweep(s.now())
		s.sweepCounter = 0
	}
	return nil
}

func (s *RevocationSet) IsRevoked(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.revoked[token]
	if !ok {
		return false, nil
	}
	// An expired entry is dropped lazily; the codec rejects the token on
	// expiry grounds regardless.
	if s.now().After(expiresAt) {
		delete(s.revoked, token)
		return false, nil
	}
	return true, nil
}

// sweep removes entries whose tokens have expired. Must be called while
// holding s.mu.
func (s *RevocationSet) sweep(now time.Time) {
	for token, expiresAt := range s.revoked {
		if now.After(expiresAt) {
			delete(s.revoked, token)
		}
	}
}
