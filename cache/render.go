package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/memoriass/astrbot-plugin-picmenu/observe"
)

// RenderFunc produces an artifact. It receives a context detached from the
// caller that triggered the render, so it is not cancelled when that caller
// gives up.
type RenderFunc func(ctx context.Context) ([]byte, error)

// Stats summarizes RenderCache activity.
type Stats struct {
	Hits     int64
	Misses   int64
	Renders  int64
	Failures int64
	Shared   int64
	Entries  int
}

// RenderCache serves artifacts from a Store and renders misses exactly once
// per key.
//
// Contract:
//   - Concurrency: safe for concurrent use. Concurrent GetOrRender calls for
//     one key share a single RenderFunc invocation and receive the same bytes.
//   - Context: a caller's ctx bounds only its own wait. The shared render runs
//     on context.WithoutCancel(ctx).
//   - Errors: render errors are never stored; every waiter of the failed
//     render receives the error and the next call retries.
//   - Clear: invalidates all entries immediately. A render that started before
//     Clear still answers its waiters but its result is not stored.
type RenderCache struct {
	store   Store
	keyer   Keyer
	policy  Policy
	metrics observe.Metrics
	logger  observe.Logger

	group singleflight.Group

	// mu orders Clear against flight stores: stores hold it shared, Clear
	// holds it exclusively while advancing epoch and clearing the store.
	mu    sync.RWMutex
	epoch atomic.Uint64

	hits, misses, renders, failures, shared atomic.Int64
}

// Option configures a RenderCache.
type Option func(*RenderCache)

// WithKeyer overrides the DefaultKeyer.
func WithKeyer(k Keyer) Option {
	return func(c *RenderCache) {
		if k != nil {
			c.keyer = k
		}
	}
}

// WithMetrics records hit/miss counts to m.
func WithMetrics(m observe.Metrics) Option {
	return func(c *RenderCache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithLogger sets the logger used for store failures and sweeps.
func WithLogger(l observe.Logger) Option {
	return func(c *RenderCache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a RenderCache over store. A nil store selects a MemoryStore.
func New(store Store, policy Policy, opts ...Option) *RenderCache {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &RenderCache{
		store:   store,
		keyer:   DefaultKeyer{},
		policy:  policy,
		metrics: observe.NopMetrics(),
		logger:  observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the cache policy.
func (c *RenderCache) Policy() Policy {
	return c.policy
}

// Store returns the underlying store.
func (c *RenderCache) Store() Store {
	return c.store
}

// GetOrRender returns the artifact for key, rendering it with fn on a miss.
// The returned slice is shared between callers and must not be modified.
func (c *RenderCache) GetOrRender(ctx context.Context, key Key, fn RenderFunc) ([]byte, error) {
	if fn == nil {
		return nil, ErrNilRender
	}
	k, err := c.keyer.Key(key)
	if err != nil {
		return nil, err
	}

	if c.policy.ShouldCache() {
		if v, ok := c.store.Get(ctx, k); ok {
			c.hits.Add(1)
			c.metrics.RecordCache(ctx, true)
			return v, nil
		}
	}
	c.misses.Add(1)
	c.metrics.RecordCache(ctx, false)

	epoch := c.epoch.Load()
	flightKey := strconv.FormatUint(epoch, 10) + "|" + k
	detached := context.WithoutCancel(ctx)

	ch := c.group.DoChan(flightKey, func() (any, error) {
		return c.flight(detached, k, epoch, fn)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.shared.Add(1)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *RenderCache) flight(ctx context.Context, k string, epoch uint64, fn RenderFunc) (v []byte, err error) {
	// A flight for this key may have stored the artifact between our miss
	// and the start of this flight.
	if c.policy.ShouldCache() {
		if v, ok := c.store.Get(ctx, k); ok {
			return v, nil
		}
	}

	c.renders.Add(1)
	v, err = safeRender(ctx, fn)
	if err != nil {
		c.failures.Add(1)
		return nil, err
	}

	if c.policy.ShouldCache() {
		c.mu.RLock()
		if c.epoch.Load() == epoch {
			if serr := c.store.Set(ctx, k, v, c.policy.TTL); serr != nil {
				c.logger.Warn(ctx, "render cache store failed", observe.F("key", k), observe.F("error", serr))
			}
		}
		c.mu.RUnlock()
	}
	return v, nil
}

func safeRender(ctx context.Context, fn RenderFunc) (v []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRenderPanic, r)
		}
	}()
	return fn(ctx)
}

// Clear removes every stored artifact and returns how many were removed.
func (c *RenderCache) Clear(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch.Add(1)
	return c.store.Clear(ctx)
}

// Sweep removes expired artifacts.
func (c *RenderCache) Sweep(ctx context.Context) (int, error) {
	return c.store.Sweep(ctx)
}

// Len returns the number of stored artifacts.
func (c *RenderCache) Len(ctx context.Context) (int, error) {
	return c.store.Len(ctx)
}

// StartSweeper sweeps expired artifacts every interval until ctx is done.
// The returned channel is closed when the sweeper exits. A non-positive
// interval disables sweeping and returns an already closed channel.
func (c *RenderCache) StartSweeper(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := c.Sweep(ctx)
				if err != nil {
					c.logger.Warn(ctx, "render cache sweep failed", observe.F("error", err))
					continue
				}
				if n > 0 {
					c.logger.Debug(ctx, "render cache swept", observe.F("evicted", n))
				}
			}
		}
	}()
	return done
}

// Stats returns activity counters and the current entry count.
func (c *RenderCache) Stats(ctx context.Context) Stats {
	n, _ := c.store.Len(ctx)
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Renders:  c.renders.Load(),
		Failures: c.failures.Load(),
		Shared:   c.shared.Load(),
		Entries:  n,
	}
}

// Close closes the underlying store.
func (c *RenderCache) Close() error {
	return c.store.Close()
}
