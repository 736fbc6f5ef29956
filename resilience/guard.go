package resilience

import (
	"context"
	"sync"
	"time"
)

// GuardConfig configures a Guard. Zero fields disable the matching layer,
// except Attempts where zero means a single attempt.
type GuardConfig struct {
	// Timeout bounds each attempt.
	Timeout time.Duration

	// Attempts is the total number of attempts per call.
	Attempts int

	// RetryDelay is the initial backoff between attempts.
	RetryDelay time.Duration

	// FailureThreshold is the number of consecutive failures that opens the
	// breaker.
	FailureThreshold int

	// Cooldown is how long the breaker stays open.
	Cooldown time.Duration

	// MaxConcurrent caps concurrent calls.
	MaxConcurrent int

	// MaxWait is how long a call may wait for a concurrency slot.
	MaxWait time.Duration
}

// Guard composes bulkhead, breaker, retry and per-attempt timeout.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Errors: the operation's own error is returned unchanged; rejections are
//     ErrBulkheadFull or ErrCircuitOpen and timeouts match ErrTimeout.
type Guard struct {
	timeout  time.Duration
	retry    *Retry
	breaker  *Breaker
	bulkhead *Bulkhead
}

// NewGuard builds a Guard from config.
func NewGuard(config GuardConfig) *Guard {
	g := &Guard{timeout: config.Timeout}
	if config.Attempts > 1 {
		g.retry = NewRetry(RetryConfig{
			Attempts:     config.Attempts,
			InitialDelay: config.RetryDelay,
			Jitter:       true,
		})
	}
	if config.FailureThreshold > 0 {
		g.breaker = NewBreaker(BreakerConfig{
			FailureThreshold: config.FailureThreshold,
			Cooldown:         config.Cooldown,
		})
	}
	if config.MaxConcurrent > 0 {
		g.bulkhead = NewBulkhead(BulkheadConfig{
			MaxConcurrent: config.MaxConcurrent,
			MaxWait:       config.MaxWait,
		})
	}
	return g
}

// Do runs op through every configured layer. A nil Guard runs op directly.
func (g *Guard) Do(ctx context.Context, op func(context.Context) error) error {
	if g == nil {
		return op(ctx)
	}

	call := op
	if g.timeout > 0 {
		inner := call
		call = func(ctx context.Context) error {
			return WithTimeout(ctx, g.timeout, inner)
		}
	}
	if g.retry != nil {
		inner := call
		call = func(ctx context.Context) error {
			return g.retry.Execute(ctx, inner)
		}
	}
	if g.breaker != nil {
		inner := call
		call = func(ctx context.Context) error {
			return g.breaker.Execute(ctx, inner)
		}
	}
	if g.bulkhead != nil {
		inner := call
		call = func(ctx context.Context) error {
			return g.bulkhead.Execute(ctx, inner)
		}
	}
	return call(ctx)
}

// Call runs fn through g and returns its value. Attempts abandoned by a
// timeout may still finish in the background, so the result is guarded.
func Call[T any](ctx context.Context, g *Guard, fn func(context.Context) (T, error)) (T, error) {
	var (
		mu  sync.Mutex
		out T
	)
	err := g.Do(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		out = v
		mu.Unlock()
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	mu.Lock()
	defer mu.Unlock()
	return out, nil
}

// GuardStats reports the state of each configured layer.
type GuardStats struct {
	Breaker  *BreakerStats
	Bulkhead *BulkheadStats
}

// Stats returns the current statistics.
func (g *Guard) Stats() GuardStats {
	var s GuardStats
	if g == nil {
		return s
	}
	if g.breaker != nil {
		b := g.breaker.Stats()
		s.Breaker = &b
	}
	if g.bulkhead != nil {
		b := g.bulkhead.Stats()
		s.Bulkhead = &b
	}
	return s
}

// Breaker returns the breaker, or nil when none is configured.
func (g *Guard) Breaker() *Breaker {
	if g == nil {
		return nil
	}
	return g.breaker
}
