// Package resilience guards calls into the renderer and other slow
// collaborators.
//
// A Guard composes, from the outside in:
//
//   - Bulkhead: caps concurrent renders so a burst of distinct topics cannot
//     exhaust the renderer.
//   - Breaker: stops calling a renderer that keeps failing and probes it again
//     after a cooldown.
//   - Retry: retries transient failures with backoff. Errors marked
//     Permanent, context errors, and rejections from the breaker or bulkhead
//     are never retried.
//   - Timeout: bounds each individual attempt.
//
// Limiter is a per-key token bucket used by the HTTP surface to throttle
// callers; it is independent of Guard.
//
// Usage:
//
//	g := resilience.NewGuard(resilience.GuardConfig{
//	    Timeout:          10 * time.Second,
//	    Attempts:         2,
//	    FailureThreshold: 5,
//	    Cooldown:         30 * time.Second,
//	    MaxConcurrent:    4,
//	})
//	out, err := resilience.Call(ctx, g, func(ctx context.Context) ([]byte, error) {
//	    return renderer.Render(ctx, doc, opts)
//	})
package resilience
