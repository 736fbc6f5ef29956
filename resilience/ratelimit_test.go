package resilience

import (
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(LimiterConfig{Rate: 2, Burst: 3})
	l.now = clock.Now

	for i := range 3 {
		if !l.Allow("alice") {
			t.Fatalf("Allow() #%d = false, want burst to pass", i+1)
		}
	}
	if l.Allow("alice") {
		t.Fatal("Allow() = true after burst, want false")
	}
	if !l.Allow("bob") {
		t.Error("Allow(bob) = false, keys must not share buckets")
	}

	if got := l.RetryAfter("alice"); got != 500*time.Millisecond {
		t.Errorf("RetryAfter() = %v, want 500ms", got)
	}

	clock.Advance(500 * time.Millisecond)
	if !l.Allow("alice") {
		t.Error("Allow() = false after refill")
	}
	if l.Allow("alice") {
		t.Error("Allow() = true, only one token should have refilled")
	}
}

func TestLimiter_RefillCapsAtBurst(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(LimiterConfig{Rate: 100, Burst: 2})
	l.now = clock.Now

	l.Allow("k")
	clock.Advance(time.Minute)

	allowed := 0
	for range 5 {
		if l.Allow("k") {
			allowed++
		}
	}
	if allowed != 2 {
		t.Errorf("allowed = %d, want burst of 2", allowed)
	}
}

func TestLimiter_PrunesIdle(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiter(LimiterConfig{IdleTTL: time.Minute})
	l.now = clock.Now

	l.Allow("a")
	l.Allow("b")
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}

	clock.Advance(2 * time.Minute)
	l.Allow("c")
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want idle keys pruned", l.Len())
	}
	if got := l.RetryAfter("unknown"); got != 0 {
		t.Errorf("RetryAfter(unknown) = %v, want 0", got)
	}
}
