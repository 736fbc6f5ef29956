package menu

import "context"

type surfaceKey struct{}

// WithSurface tags ctx with the calling surface ("cli", "http", "mcp") for
// logs and telemetry.
func WithSurface(ctx context.Context, surface string) context.Context {
	return context.WithValue(ctx, surfaceKey{}, surface)
}

// SurfaceFromContext returns the surface set by WithSurface, or "".
func SurfaceFromContext(ctx context.Context) string {
	s, _ := ctx.Value(surfaceKey{}).(string)
	return s
}
