package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the quiet period before a change is reported.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watch blocks until ctx is cancelled, calling onChange after the file at
// path is written, created, renamed, or removed. Bursts of events within
// debounce are coalesced into one call. A non-positive debounce selects
// DefaultWatchDebounce. Watch does not return while onChange is running.
//
// The parent directory is watched rather than the file itself so editors
// that replace the file atomically are still observed.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func(context.Context)) error {
	if onChange == nil {
		return fmt.Errorf("catalog: watch %s: nil callback", path)
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("catalog: watch %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: create watcher: %w", err)
	}
	defer fsw.Close() //nolint:errcheck // best-effort cleanup

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", filepath.Dir(abs), err)
	}

	var (
		mu      sync.Mutex
		timer   *time.Timer
		stopped bool
		running sync.WaitGroup
	)
	// Watch returns only after a callback already in progress has finished.
	defer func() {
		mu.Lock()
		stopped = true
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		running.Wait()
	}()

	fire := func() {
		mu.Lock()
		if stopped || ctx.Err() != nil {
			mu.Unlock()
			return
		}
		running.Add(1)
		mu.Unlock()
		defer running.Done()
		onChange(ctx)
	}

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("catalog: watcher event channel closed")
			}
			if filepath.Clean(evt.Name) != abs || evt.Op&relevant == 0 {
				continue
			}
			mu.Lock()
			if timer == nil {
				timer = time.AfterFunc(debounce, fire)
			} else {
				timer.Reset(debounce)
			}
			mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("catalog: watcher error channel closed")
			}
			return fmt.Errorf("catalog: watch %s: %w", path, err)
		}
	}
}
