package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// RateLimitError reports an exceeded window with a retry hint.
type RateLimitError struct {
	RetryAfter int // whole seconds remaining in the current window
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many requests, retry after %ds", e.RetryAfter)
}

// Limiter is a fixed-window per-key counter. State is process-local and
// best-effort: a restart silently resets every counter. The clock is
// injected so tests can drive window expiry deterministically.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	max     int
	window  time.Duration
	now     func() time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// NewLimiter creates a limiter allowing max requests per window.
// PRE: max > 0, window > 0; now may be nil (defaults to time.Now)
func NewLimiter(max int, window time.Duration, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		buckets: make(map[string]*bucket),
		max:     max,
		window:  window,
		now:     now,
	}
}

// Allow counts one request for key.
// POST: ok=true when within the limit; otherwise ok=false and retryAfter is
// the whole seconds remaining in the window (always <= window length)
func (l *Limiter) Allow(key string) (ok bool, retryAfter int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, exists := l.buckets[key]
	if !exists || now.After(b.windowEnd) {
		l.sweep(now)
		l.buckets[key] = &bucket{count: 1, windowEnd: now.Add(l.window)}
		return true, 0
	}
	if b.count >= l.max {
		remaining := int(b.windowEnd.Sub(now).Seconds() + 0.999)
		if remaining < 0 {
			remaining = 0
		}
		return false, remaining
	}
	b.count++
	return true, 0
}

// sweep drops lapsed buckets. Called with the lock held whenever a new
// window starts, so stale keys cannot accumulate unbounded.
func (l *Limiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.After(b.windowEnd) {
			delete(l.buckets, key)
		}
	}
}
