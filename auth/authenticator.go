package auth

import (
	"context"
	"net/http"
	"strings"
)

// Authenticator validates credentials and returns an identity.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: methods should honor cancellation/deadlines.
//   - Errors: Authenticate returns (nil, error) for internal errors;
//     returns (AuthResult, nil) for auth failures (check result.Authenticated).
type Authenticator interface {
	// Name returns a unique identifier for this authenticator.
	Name() string

	// Supports returns true if this authenticator can handle the request.
	Supports(ctx context.Context, req *AuthRequest) bool

	// Authenticate validates credentials and returns a result.
	Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error)
}

// AuthRequest carries the transport credentials of one request.
type AuthRequest struct {
	Headers http.Header
}

// GetHeader returns the first value for a header, or empty string.
func (r *AuthRequest) GetHeader(key string) string {
	if r == nil || r.Headers == nil {
		return ""
	}
	return r.Headers.Get(key)
}

// AuthResult is the result of an authentication attempt.
type AuthResult struct {
	Authenticated bool
	Identity      *Identity
	Error         error
	Method        string
}

// AuthSuccess creates a successful authentication result.
func AuthSuccess(identity *Identity) *AuthResult {
	return &AuthResult{
		Authenticated: true,
		Identity:      identity,
		Method:        string(identity.Method),
	}
}

// AuthFailure creates a failed authentication result.
func AuthFailure(err error, method string) *AuthResult {
	return &AuthResult{
		Authenticated: false,
		Error:         err,
		Method:        method,
	}
}

// DefaultUserHeader carries the caller's user ID when the hosting bot
// forwards requests on behalf of a chat user.
const DefaultUserHeader = "X-Picmenu-User"

// HeaderAuthenticator trusts a user ID header set by the hosting bot and
// resolves administrator status through an AdminList. It must only be
// enabled behind a transport the bot controls.
type HeaderAuthenticator struct {
	header string
	admins *AdminList
}

// NewHeaderAuthenticator creates a HeaderAuthenticator. An empty header
// selects DefaultUserHeader.
func NewHeaderAuthenticator(header string, admins *AdminList) *HeaderAuthenticator {
	if header == "" {
		header = DefaultUserHeader
	}
	return &HeaderAuthenticator{header: header, admins: admins}
}

// Name returns "header".
func (a *HeaderAuthenticator) Name() string {
	return "header"
}

// Supports returns true if the user header is present.
func (a *HeaderAuthenticator) Supports(_ context.Context, req *AuthRequest) bool {
	return strings.TrimSpace(req.GetHeader(a.header)) != ""
}

// Authenticate identifies the caller named by the header.
func (a *HeaderAuthenticator) Authenticate(_ context.Context, req *AuthRequest) (*AuthResult, error) {
	principal := strings.TrimSpace(req.GetHeader(a.header))
	if principal == "" {
		return AuthFailure(ErrMissingCredentials, "header"), nil
	}
	return AuthSuccess(a.admins.Identify(principal, AuthMethodHeader)), nil
}

// Chain tries authenticators in order and returns the first success. When
// none succeeds, the last failure is returned.
type Chain []Authenticator

// Name returns "chain".
func (c Chain) Name() string {
	return "chain"
}

// Supports returns true if any authenticator supports the request.
func (c Chain) Supports(ctx context.Context, req *AuthRequest) bool {
	for _, a := range c {
		if a.Supports(ctx, req) {
			return true
		}
	}
	return false
}

// Authenticate tries each supporting authenticator in sequence.
func (c Chain) Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error) {
	var last *AuthResult
	for _, a := range c {
		if !a.Supports(ctx, req) {
			continue
		}
		result, err := a.Authenticate(ctx, req)
		if err != nil {
			return nil, err
		}
		if result.Authenticated {
			return result, nil
		}
		last = result
	}
	if last != nil {
		return last, nil
	}
	return AuthFailure(ErrMissingCredentials, ""), nil
}

var (
	_ Authenticator = (*HeaderAuthenticator)(nil)
	_ Authenticator = Chain(nil)
)
