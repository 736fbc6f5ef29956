package index

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/memoriass/astrbot-plugin-picmenu/catalog"
)

// Stats summarizes a Holder's rebuild history.
type Stats struct {
	Builds      int64
	Failures    int64
	LastBuild   time.Time
	LastFailure time.Time
	LastError   string
	Fingerprint string
	Plugins     int
	Commands    int
}

// Holder publishes the current Index and rebuilds it from a catalog source.
//
// Contract:
//   - Concurrency: safe for concurrent use; Load never blocks on a rebuild.
//   - Errors: a failed rebuild leaves the previously published index in place.
type Holder struct {
	opts    Options
	current atomic.Pointer[Index]
	group   singleflight.Group

	mu    sync.Mutex
	stats Stats
}

// NewHolder creates an empty Holder that builds with opts.
func NewHolder(opts Options) *Holder {
	return &Holder{opts: opts}
}

// Load returns the published index, or nil before the first successful build.
func (h *Holder) Load() *Index {
	return h.current.Load()
}

// MustLoad returns the published index or ErrNotBuilt.
func (h *Holder) MustLoad() (*Index, error) {
	if idx := h.current.Load(); idx != nil {
		return idx, nil
	}
	return nil, ErrNotBuilt
}

// Rebuild takes a fresh snapshot from src, builds an index, and publishes it.
// Concurrent calls share one rebuild. On failure the current index is kept
// and the error is returned.
func (h *Holder) Rebuild(ctx context.Context, src catalog.Source) (*Index, error) {
	if src == nil {
		return nil, catalog.ErrNilSource
	}

	v, err, _ := h.group.Do("rebuild", func() (any, error) {
		snap, err := src.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return Build(snap, h.opts)
	})
	if err != nil {
		h.recordFailure(err)
		return nil, err
	}

	idx := v.(*Index)
	h.Publish(idx)
	return idx, nil
}

// Publish atomically replaces the current index with idx.
func (h *Holder) Publish(idx *Index) {
	if idx == nil {
		h.recordFailure(errors.New("index: nil index published"))
		return
	}
	h.current.Store(idx)

	h.mu.Lock()
	h.stats.Builds++
	h.stats.LastBuild = time.Now()
	h.stats.Fingerprint = idx.Fingerprint()
	h.stats.Plugins = idx.Len()
	h.stats.Commands = idx.CommandCount()
	h.mu.Unlock()
}

// Stale reports whether the most recent rebuild failed after the current
// index was published.
func (s Stats) Stale() bool {
	return !s.LastFailure.IsZero() && s.LastFailure.After(s.LastBuild)
}

// Stats returns a copy of the rebuild statistics.
func (h *Holder) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

func (h *Holder) recordFailure(err error) {
	h.mu.Lock()
	h.stats.Failures++
	h.stats.LastFailure = time.Now()
	h.stats.LastError = err.Error()
	h.mu.Unlock()
}
