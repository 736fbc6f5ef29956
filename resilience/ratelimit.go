package resilience

import (
	"sync"
	"time"
)

// LimiterConfig configures a Limiter.
type LimiterConfig struct {
	// Rate is the sustained number of operations per second per key.
	// Default: 5
	Rate float64

	// Burst is the bucket size per key.
	// Default: 10
	Burst int

	// IdleTTL drops buckets that have been full and untouched this long.
	// Default: 10 minutes
	IdleTTL time.Duration
}

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a token bucket per key, typically per caller principal.
type Limiter struct {
	config LimiterConfig
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	pruned  time.Time
}

// NewLimiter creates a Limiter.
func NewLimiter(config LimiterConfig) *Limiter {
	if config.Rate <= 0 {
		config.Rate = 5
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	return &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow takes one token from key's bucket and reports whether one was
// available.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.config.Burst), last: now}
		l.buckets[key] = b
	}
	b.refill(now, l.config)

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// RetryAfter returns how long key must wait for its next token.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		return 0
	}
	b.refill(l.now(), l.config)
	if b.tokens >= 1 {
		return 0
	}
	return time.Duration((1 - b.tokens) / l.config.Rate * float64(time.Second))
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (b *bucket) refill(now time.Time, cfg LimiterConfig) {
	if elapsed := now.Sub(b.last); elapsed > 0 {
		b.tokens = min(b.tokens+elapsed.Seconds()*cfg.Rate, float64(cfg.Burst))
	}
	b.last = now
}

// pruneLocked forgets buckets idle for IdleTTL, scanning at most once per
// IdleTTL. IdleTTL must exceed Burst/Rate so only full buckets are dropped.
func (l *Limiter) pruneLocked(now time.Time) {
	if now.Sub(l.pruned) < l.config.IdleTTL {
		return
	}
	l.pruned = now
	for k, b := range l.buckets {
		if now.Sub(b.last) >= l.config.IdleTTL {
			delete(l.buckets, k)
		}
	}
}
