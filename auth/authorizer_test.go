package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAdminAuthorizer(t *testing.T) {
	admin := NewIdentity("10001", AuthMethodHeader, RoleAdmin)
	user := NewIdentity("20002", AuthMethodHeader)
	expired := &Identity{Principal: "10001", Roles: []string{RoleAdmin}, ExpiresAt: time.Now().Add(-time.Second)}

	tests := []struct {
		name    string
		subject *Identity
		action  Action
		wantErr bool
	}{
		{"user queries", user, ActionQuery, false},
		{"anonymous queries", nil, ActionQuery, false},
		{"admin status", admin, ActionStatus, false},
		{"admin clear", admin, ActionClearCache, false},
		{"admin rebuild", admin, ActionRebuild, false},
		{"user status", user, ActionStatus, true},
		{"user clear", user, ActionClearCache, true},
		{"anonymous rebuild", nil, ActionRebuild, true},
		{"expired admin clear", expired, ActionClearCache, true},
	}

	authz := AdminAuthorizer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.Authorize(context.Background(), &AuthzRequest{Subject: tt.subject, Action: tt.action})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Authorize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrForbidden) {
				t.Errorf("Authorize() error = %v, want ErrForbidden", err)
			}
			var authzErr *AuthzError
			if !errors.As(err, &authzErr) {
				t.Fatalf("Authorize() error type = %T, want *AuthzError", err)
			}
			if authzErr.Action != tt.action {
				t.Errorf("AuthzError.Action = %q, want %q", authzErr.Action, tt.action)
			}
		})
	}
}

func TestAuthzError(t *testing.T) {
	cause := errors.New("boom")
	err := &AuthzError{Subject: "u", Action: ActionStatus, Reason: "r", Cause: cause}

	if !errors.Is(err, ErrForbidden) {
		t.Error("AuthzError should match ErrForbidden")
	}
	if !errors.Is(err, cause) {
		t.Error("AuthzError should unwrap to its cause")
	}
	want := `authorization denied: subject="u" action="status" reason="r"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestAuthorizerFunc(t *testing.T) {
	called := false
	f := AuthorizerFunc(func(context.Context, *AuthzRequest) error {
		called = true
		return nil
	})
	if err := f.Authorize(context.Background(), &AuthzRequest{}); err != nil || !called {
		t.Errorf("Authorize() = %v, called = %v", err, called)
	}
	if f.Name() != "func" {
		t.Errorf("Name() = %q, want func", f.Name())
	}
}
