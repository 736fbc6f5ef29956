package health

import (
	"context"
	"fmt"

	"github.com/memoriass/astrbot-plugin-picmenu/index"
	"github.com/memoriass/astrbot-plugin-picmenu/resilience"
)

// IndexChecker reports on the published plugin index. It is unhealthy
// before the first successful build and degraded while the latest rebuild
// has failed, since queries are then served from an older catalog.
func IndexChecker(h *index.Holder) Checker {
	return Func("index", func(context.Context) Result {
		idx := h.Load()
		stats := h.Stats()
		if idx == nil {
			msg := "index not built"
			if stats.LastError != "" {
				msg += ": " + stats.LastError
			}
			return Unhealthy(msg, index.ErrNotBuilt)
		}

		details := map[string]any{
			"plugins":     idx.Len(),
			"commands":    idx.CommandCount(),
			"fingerprint": idx.Fingerprint(),
			"builds":      stats.Builds,
			"failures":    stats.Failures,
		}
		if stats.Stale() {
			details["last_error"] = stats.LastError
			return Degraded("serving previous index; last rebuild failed").WithDetails(details)
		}
		return Healthy(fmt.Sprintf("%d plugins indexed", idx.Len())).WithDetails(details)
	})
}

// EntryCounter is the part of a cache the CacheChecker needs.
type EntryCounter interface {
	Len(ctx context.Context) (int, error)
}

// CacheChecker reports whether the render cache store answers.
func CacheChecker(c EntryCounter) Checker {
	return Func("cache", func(ctx context.Context) Result {
		n, err := c.Len(ctx)
		if err != nil {
			return Unhealthy("cache store unavailable", err)
		}
		return Healthy(fmt.Sprintf("%d cached artifacts", n)).WithDetails(map[string]any{"entries": n})
	})
}

// BreakerChecker reports the renderer circuit state. An open or probing
// circuit is degraded: cached artifacts are still served.
func BreakerChecker(b *resilience.Breaker) Checker {
	return Func("renderer", func(context.Context) Result {
		if b == nil {
			return Healthy("no circuit breaker configured")
		}
		s := b.Stats()
		details := map[string]any{
			"state":    s.State.String(),
			"failures": s.Failures,
			"trips":    s.Trips,
		}
		if s.State != resilience.StateClosed {
			return Degraded("renderer circuit " + s.State.String()).WithDetails(details)
		}
		return Healthy("renderer circuit closed").WithDetails(details)
	})
}
