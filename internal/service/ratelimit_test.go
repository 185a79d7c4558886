package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRateLimiterAdmitsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(100, 10*time.Minute)

	for i := 0; i < 100; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected inside the budget", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("request 101 admitted over the budget")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.1")
	if rl.Allow("10.0.0.1") {
		t.Fatal("third request from the same address admitted")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("first request from a different address rejected")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.1")
	if rl.Allow("10.0.0.1") {
		t.Fatal("over-budget request admitted")
	}

	// Still inside the window.
	rl.now = func() time.Time { return now.Add(30 * time.Second) }
	if rl.Allow("10.0.0.1") {
		t.Fatal("request admitted while window still full")
	}

	// The first two stamps age out.
	rl.now = func() time.Time { return now.Add(time.Minute + time.Second) }
	if !rl.Allow("10.0.0.1") {
		t.Fatal("request rejected after the window slid past")
	}
}

func TestRateLimiterRejectionNotCounted(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	for i := 0; i < 10; i++ {
		rl.now = func() time.Time { return now.Add(time.Duration(i) * time.Second) }
		if rl.Allow("10.0.0.1") {
			t.Fatal("request admitted while window full")
		}
	}

	// Hammering while blocked must not extend the ban: one window after the
	// single admitted request, the next one goes through.
	rl.now = func() time.Time { return now.Add(time.Minute + time.Second) }
	if !rl.Allow("10.0.0.1") {
		t.Fatal("rejections extended the window")
	}
}

func TestRateLimiterConcurrentSameKey(t *testing.T) {
	const limit = 50
	rl := NewRateLimiter(limit, time.Minute)

	var admitted int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("10.0.0.1") {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	if admitted != limit {
		t.Fatalf("admitted %d concurrent requests, want exactly %d", admitted, limit)
	}
}

func TestRateLimiterSweepDropsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute)

	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")

	// Enough admissions to trigger the idle sweep, placed after the first
	// key's stamps have aged out.
	rl.now = func() time.Time { return now.Add(2 * time.Minute) }
	for i := 0; i < 1000; i++ {
		rl.Allow(fmt.Sprintf("10.0.1.%d", i))
	}

	rl.mu.Lock()
	_, present := rl.windows["10.0.0.1"]
	rl.mu.Unlock()
	if present {
		t.Fatal("idle key survived the sweep")
	}
}
