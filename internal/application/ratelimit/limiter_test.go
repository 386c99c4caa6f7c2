package ratelimit

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)}
}

// TestLimiter_AllowsWithinWindow tests that max requests pass.
func TestLimiter_AllowsWithinWindow(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(3, time.Minute, clock.now)

	for i := 0; i < 3; i++ {
		if ok, _ := l.Allow("203.0.113.7"); !ok {
			t.Fatalf("request %d rejected, want allowed", i+1)
		}
	}
}

// TestLimiter_RejectsBeyondMax tests rejection with a retry hint bounded by
// the window length.
func TestLimiter_RejectsBeyondMax(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(2, time.Minute, clock.now)

	l.Allow("ip")
	l.Allow("ip")
	clock.advance(10 * time.Second)

	ok, retryAfter := l.Allow("ip")
	if ok {
		t.Fatal("third request allowed, want rejected")
	}
	if retryAfter <= 0 || retryAfter > 60 {
		t.Errorf("retryAfter = %d, want within (0, 60]", retryAfter)
	}
	if retryAfter != 50 {
		t.Errorf("retryAfter = %d, want 50", retryAfter)
	}
}

// TestLimiter_WindowReset tests that a lapsed window admits requests again.
func TestLimiter_WindowReset(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(1, time.Minute, clock.now)

	l.Allow("ip")
	if ok, _ := l.Allow("ip"); ok {
		t.Fatal("second request allowed within window")
	}

	clock.advance(61 * time.Second)
	if ok, _ := l.Allow("ip"); !ok {
		t.Fatal("request rejected after window lapsed")
	}
}

// TestLimiter_KeysAreIndependent tests per-address isolation.
func TestLimiter_KeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(1, time.Minute, clock.now)

	l.Allow("ip-a")
	if ok, _ := l.Allow("ip-b"); !ok {
		t.Fatal("ip-b rejected after ip-a consumed its own window")
	}
}

// TestLimiter_SweepsStaleBuckets tests that lapsed buckets are dropped when
// new windows start.
func TestLimiter_SweepsStaleBuckets(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(1, time.Minute, clock.now)

	l.Allow("ip-a")
	l.Allow("ip-b")
	clock.advance(2 * time.Minute)
	l.Allow("ip-c")

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.buckets) != 1 {
		t.Errorf("buckets = %d, want only the fresh key", len(l.buckets))
	}
}
