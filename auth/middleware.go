package auth

import (
	"errors"
	"net/http"
)

// Middleware is HTTP middleware that identifies the caller and attaches the
// identity to the request context.
//
// Requests without credentials proceed as anonymous callers. Requests whose
// credentials are present but invalid are rejected with 401 so a broken
// token never silently downgrades to anonymous access.
//
// Usage:
//
//	mux.Handle("/menu", auth.Middleware(authn)(menuHandler))
func Middleware(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			req := &AuthRequest{Headers: r.Header}

			if authn == nil || !authn.Supports(ctx, req) {
				next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, AnonymousIdentity())))
				return
			}

			result, err := authn.Authenticate(ctx, req)
			if err != nil {
				http.Error(w, "authentication unavailable", http.StatusInternalServerError)
				return
			}
			if !result.Authenticated {
				msg := "invalid credentials"
				if errors.Is(result.Error, ErrTokenExpired) {
					msg = "token expired"
				}
				http.Error(w, msg, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, result.Identity)))
		})
	}
}
