// Package server exposes the help menu over HTTP.
//
// Routes:
//
//	GET  /menu?q=&page=         rendered page, or 300 with a candidate list
//	GET  /menu/{plugin}?q=      navigate inside a plugin page
//	GET  /api/status            admin status summary
//	POST /api/cache/clear       admin cache clear
//	POST /api/rebuild           admin index rebuild
//	GET  /healthz /readyz /health
//	GET  /metrics               Prometheus scrape endpoint, when enabled
//
// Callers are identified by the auth package; unauthenticated requests are
// served as anonymous callers and rate limited per remote address.
package server
