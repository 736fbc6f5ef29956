package index

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/memoriass/astrbot-plugin-picmenu/catalog"
)

func TestHolder_Rebuild(t *testing.T) {
	h := NewHolder(Options{})
	ctx := context.Background()

	if h.Load() != nil {
		t.Error("Load() before build should be nil")
	}
	if _, err := h.MustLoad(); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("MustLoad() error = %v, want %v", err, ErrNotBuilt)
	}

	src := catalog.SourceFunc(func(context.Context) (*catalog.Snapshot, error) {
		return testSnapshot(), nil
	})
	idx, err := h.Rebuild(ctx, src)
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if h.Load() != idx {
		t.Error("Load() should return the rebuilt index")
	}

	stats := h.Stats()
	if stats.Builds != 1 || stats.Plugins != 3 || stats.Commands != 4 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.Stale() {
		t.Error("Stale() = true after a successful build")
	}
	if stats.Fingerprint != idx.Fingerprint() {
		t.Errorf("Stats().Fingerprint = %q, want %q", stats.Fingerprint, idx.Fingerprint())
	}
}

func TestHolder_FailedRebuildKeepsPrevious(t *testing.T) {
	h := NewHolder(Options{})
	ctx := context.Background()

	good, err := h.Rebuild(ctx, catalog.SourceFunc(func(context.Context) (*catalog.Snapshot, error) {
		return testSnapshot(), nil
	}))
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	sourceErr := errors.New("host unavailable")
	_, err = h.Rebuild(ctx, catalog.SourceFunc(func(context.Context) (*catalog.Snapshot, error) {
		return nil, sourceErr
	}))
	if !errors.Is(err, sourceErr) {
		t.Errorf("Rebuild() error = %v, want %v", err, sourceErr)
	}
	if h.Load() != good {
		t.Error("failed rebuild should keep the previous index")
	}

	invalid := &catalog.Snapshot{Plugins: []catalog.PluginMeta{{ID: "x"}}}
	_, err = h.Rebuild(ctx, catalog.SourceFunc(func(context.Context) (*catalog.Snapshot, error) {
		return invalid, nil
	}))
	if !errors.Is(err, catalog.ErrInvalidSnapshot) {
		t.Errorf("Rebuild() error = %v, want %v", err, catalog.ErrInvalidSnapshot)
	}
	if h.Load() != good {
		t.Error("invalid snapshot should keep the previous index")
	}

	stats := h.Stats()
	if stats.Failures != 2 || stats.LastError == "" {
		t.Errorf("Stats() = %+v, want 2 failures with last error", stats)
	}
	if !stats.Stale() {
		t.Error("Stale() = false after a failed rebuild")
	}

	if _, err := h.Rebuild(ctx, nil); !errors.Is(err, catalog.ErrNilSource) {
		t.Errorf("Rebuild(nil) error = %v, want %v", err, catalog.ErrNilSource)
	}
}

func TestHolder_ConcurrentRebuildAndLoad(t *testing.T) {
	h := NewHolder(Options{})
	ctx := context.Background()

	var calls atomic.Int32
	src := catalog.SourceFunc(func(context.Context) (*catalog.Snapshot, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return testSnapshot(), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := h.Rebuild(ctx, src); err != nil {
				t.Errorf("Rebuild() error = %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if idx := h.Load(); idx != nil && idx.Len() != 3 {
				t.Errorf("Load() observed partial index with %d plugins", idx.Len())
			}
		}()
	}
	wg.Wait()

	if calls.Load() >= 10 {
		t.Errorf("snapshot calls = %d, want concurrent rebuilds to share work", calls.Load())
	}
}
