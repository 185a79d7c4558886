package service

import (
	"sync"
	"time"
)

// RateLimiter bounds request volume per client address with an exact
// sliding-window log: real timestamps, pruned to the trailing window, not
// fixed-bucket counters. All keys share one mutex, which makes per-key
// admission linearizable and is cheap at this traffic scale.
type RateLimiter struct {
	mu           sync.Mutex
	windows      map[string][]time.Time
	limit        int
	window       time.Duration
	now          func() time.Time
	sweepCounter int // admissions since the last idle-key sweep
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow decides admission for one request from key. Rejected requests are not
// counted, so a client hammering a full window does not extend its own ban.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	stamps := rl.windows[key]
	for len(stamps) > 0 && stamps[0].Before(cutoff) {
		stamps = stamps[1:]
	}

	if len(stamps) >= rl.limit {
		rl.windows[key] = stamps
		return false
	}

	rl.windows[key] = append(stamps, now)

	rl.sweepCounter++
	if rl.sweepCounter >= 1000 {
		rl.sweep(cutoff)
		rl.sweepCounter = 0
	}
	return true
}

// sweep drops keys whose every timestamp has aged out, so addresses that stop
// sending traffic do not pin memory forever. Must be called while holding
// rl.mu.
func (rl *RateLimiter) sweep(cutoff time.Time) {
	for key, stamps := range rl.windows {
		if len(stamps) == 0 || !stamps[len(stamps)-1].After(cutoff) {
			delete(rl.windows, key)
		}
	}
}
