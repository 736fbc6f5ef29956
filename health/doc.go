// Package health reports whether the menu service can answer queries.
//
// A Checker inspects one component and returns a Result with a Status of
// healthy, degraded or unhealthy. The Aggregator runs its checkers in
// parallel under one deadline and folds their statuses: any unhealthy check
// makes the whole service unhealthy, any degraded one makes it degraded.
//
// Built-in checkers cover the published index (IndexChecker), the render
// cache (CacheChecker), the renderer circuit breaker (BreakerChecker) and
// process memory (MemoryChecker).
//
// # HTTP Endpoints
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg) // /healthz, /readyz, /health
package health
