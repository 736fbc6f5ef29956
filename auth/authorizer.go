package auth

import (
	"context"
	"fmt"
)

// Action names a caller-facing menu operation.
type Action string

const (
	ActionQuery      Action = "query"
	ActionStatus     Action = "status"
	ActionClearCache Action = "clear_cache"
	ActionRebuild    Action = "rebuild"
)

// Privileged reports whether the action is reserved for administrators.
func (a Action) Privileged() bool {
	switch a {
	case ActionStatus, ActionClearCache, ActionRebuild:
		return true
	default:
		return false
	}
}

// Authorizer determines if an identity is allowed to perform an action.
type Authorizer interface {
	// Authorize checks if the request is permitted.
	// Returns nil if authorized, or an error (typically *AuthzError) if denied.
	Authorize(ctx context.Context, req *AuthzRequest) error

	// Name returns a unique identifier for this authorizer.
	Name() string
}

// AuthzRequest contains the information needed for authorization.
type AuthzRequest struct {
	// Subject is the identity making the request.
	Subject *Identity

	// Action is the requested action.
	Action Action

	// Resource optionally names the target (e.g. a plugin ID).
	Resource string
}

// AuthzError represents an authorization failure.
type AuthzError struct {
	Subject string
	Action  Action
	Reason  string
	Cause   error
}

// Error returns the error message.
func (e *AuthzError) Error() string {
	return fmt.Sprintf("authorization denied: subject=%q action=%q reason=%q",
		e.Subject, e.Action, e.Reason)
}

// Unwrap returns the cause error for errors.Is/As support.
func (e *AuthzError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches the target.
func (e *AuthzError) Is(target error) bool {
	return target == ErrForbidden
}

// AdminAuthorizer permits privileged actions only for administrators.
// Non-privileged actions are always permitted.
type AdminAuthorizer struct{}

// Authorize implements Authorizer.
func (AdminAuthorizer) Authorize(_ context.Context, req *AuthzRequest) error {
	if !req.Action.Privileged() {
		return nil
	}
	if req.Subject.IsAdmin() {
		return nil
	}

	subject := ""
	if req.Subject != nil {
		subject = req.Subject.Principal
	}
	reason := "administrator role required"
	if req.Subject.IsExpired() {
		reason = "identity expired"
	}
	return &AuthzError{
		Subject: subject,
		Action:  req.Action,
		Reason:  reason,
	}
}

// Name returns "admin".
func (AdminAuthorizer) Name() string {
	return "admin"
}

// AuthorizerFunc is an adapter to allow use of ordinary functions as Authorizers.
type AuthorizerFunc func(ctx context.Context, req *AuthzRequest) error

// Authorize calls the function.
func (f AuthorizerFunc) Authorize(ctx context.Context, req *AuthzRequest) error {
	return f(ctx, req)
}

// Name returns "func" for function-based authorizers.
func (f AuthorizerFunc) Name() string {
	return "func"
}

var (
	_ Authorizer = AdminAuthorizer{}
	_ Authorizer = AuthorizerFunc(nil)
)
