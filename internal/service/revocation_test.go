package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestRevokeIsVisible(t *testing.T) {
	ctx := context.Background()
	set := NewRevocationSet()
	expiresAt := time.Now().Add(time.Hour)

	revoked, err := set.IsRevoked(ctx, "token-1")
	if err != nil || revoked {
		t.Fatalf("fresh set reported revoked=%v err=%v", revoked, err)
	}

	if err := set.Revoke(ctx, "token-1", expiresAt); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	for i := 0; i < 3; i++ {
		revoked, err := set.IsRevoked(ctx, "token-1")
		if err != nil {
			t.Fatalf("IsRevoked: %v", err)
		}
		if !revoked {
			t.Fatal("revoked token reported as not revoked")
		}
	}
}

func TestRevokeIdempotent(t *testing.T) {
	ctx := context.Background()
	set := NewRevocationSet()
	expiresAt := time.Now().Add(time.Hour)

	for i := 0; i < 5; i++ {
		if err := set.Revoke(ctx, "token-1", expiresAt); err != nil {
			t.Fatalf("Revoke #%d: %v", i, err)
		}
	}

	revoked, err := set.IsRevoked(ctx, "token-1")
	if err != nil || !revoked {
		t.Fatalf("expected revoked, got revoked=%v err=%v", revoked, err)
	}
}

func TestRevokeVisibleAcrossGoroutines(t *testing.T) {
	ctx := context.Background()
	set := NewRevocationSet()
	expiresAt := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		token := fmt.Sprintf("token-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := set.Revoke(ctx, token, expiresAt); err != nil {
				t.Errorf("Revoke(%s): %v", token, err)
				return
			}
			revoked, err := set.IsRevoked(ctx, token)
			if err != nil || !revoked {
				t.Errorf("IsRevoked(%s) after Revoke: revoked=%v err=%v", token, revoked, err)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		token := fmt.Sprintf("token-%d", i)
		revoked, err := set.IsRevoked(ctx, token)
		if err != nil || !revoked {
			t.Fatalf("IsRevoked(%s): revoked=%v err=%v", token, revoked, err)
		}
	}
}

func TestRevocationExpiresWithToken(t *testing.T) {
	ctx := context.Background()
	set := NewRevocationSet()

	now := time.Now()
	set.now = func() time.Time { return now }

	if err := set.Revoke(ctx, "token-1", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	revoked, _ := set.IsRevoked(ctx, "token-1")
	if !revoked {
		t.Fatal("expected revoked before token expiry")
	}

	// Once the refresh token itself could no longer be redeemed, the entry
	// stops mattering and is dropped.
	set.now = func() time.Time { return now.Add(2 * time.Hour) }
	revoked, _ = set.IsRevoked(ctx, "token-1")
	if revoked {
		t.Fatal("expected entry to lapse after token expiry")
	}

	set.mu.Lock()
	_, present := set.revoked["token-1"]
	set.mu.Unlock()
	if present {
		t.Fatal("lapsed entry still in the set")
	}
}

func TestRevocationSweep(t *testing.T) {
	ctx := context.Background()
	set := NewRevocationSet()

	now := time.Now()
	set.now = func() time.Time { return now }

	for i := 0; i < 99; i++ {
		if err := set.Revoke(ctx, fmt.Sprintf("stale-%d", i), now.Add(time.Minute)); err != nil {
			t.Fatalf("Revoke: %v", err)
		}
	}

	// The 100th revocation triggers the sweep; by then every earlier entry
	// has expired.
	set.now = func() time.Time { return now.Add(time.Hour) }
	if err := set.Revoke(ctx, "fresh", now.Add(2*time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	set.mu.Lock()
	size := len(set.revoked)
	set.mu.Unlock()
	if size != 1 {
		t.Fatalf("expected only the fresh entry after sweep, got %d entries", size)
	}
}
