// Package observe provides observability primitives for menu operations.
//
// It is a pure instrumentation library: a JSON structured logger, an
// OpenTelemetry tracer and meter, and a Middleware that wraps resolve,
// render, and administrative operations with all three. Consumers wire the
// observer into menu.Service and the transport surfaces.
package observe
