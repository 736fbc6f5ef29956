package auth

import "context"

type contextKey int

const identityKey contextKey = iota

// WithIdentity returns a new context with the given identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the identity from the context.
// Returns nil if no identity is present.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// CallerFromContext is like IdentityFromContext but falls back to an
// anonymous identity.
func CallerFromContext(ctx context.Context) *Identity {
	if id := IdentityFromContext(ctx); id != nil {
		return id
	}
	return AnonymousIdentity()
}
