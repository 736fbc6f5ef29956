package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestHeaderAuthenticator(t *testing.T) {
	a := NewHeaderAuthenticator("", NewAdminList("10001"))
	ctx := context.Background()

	if a.Name() != "header" {
		t.Errorf("Name() = %q, want header", a.Name())
	}

	empty := &AuthRequest{Headers: http.Header{}}
	if a.Supports(ctx, empty) {
		t.Error("Supports() without header should be false")
	}
	result, err := a.Authenticate(ctx, empty)
	if err != nil || result.Authenticated || !errors.Is(result.Error, ErrMissingCredentials) {
		t.Errorf("Authenticate(empty) = %+v, %v", result, err)
	}

	req := &AuthRequest{Headers: http.Header{}}
	req.Headers.Set(DefaultUserHeader, "10001")
	if !a.Supports(ctx, req) {
		t.Error("Supports() with header should be true")
	}
	result, err = a.Authenticate(ctx, req)
	if err != nil || !result.Authenticated {
		t.Fatalf("Authenticate() = %+v, %v", result, err)
	}
	if result.Identity.Principal != "10001" || !result.Identity.IsAdmin() {
		t.Errorf("Identity = %+v, want admin 10001", result.Identity)
	}
	if result.Method != string(AuthMethodHeader) {
		t.Errorf("Method = %q, want %q", result.Method, AuthMethodHeader)
	}
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	fail := &stubAuthenticator{name: "fail", supports: true, result: AuthFailure(ErrInvalidCredentials, "fail")}
	skip := &stubAuthenticator{name: "skip", supports: false}
	ok := &stubAuthenticator{name: "ok", supports: true, result: AuthSuccess(NewIdentity("u", AuthMethodLocal))}
	boom := &stubAuthenticator{name: "boom", supports: true, err: errors.New("boom")}

	tests := []struct {
		name     string
		chain    Chain
		wantAuth bool
		wantErr  bool
		wantFail error
	}{
		{"empty", Chain{}, false, false, ErrMissingCredentials},
		{"only unsupported", Chain{skip}, false, false, ErrMissingCredentials},
		{"failure then success", Chain{fail, ok}, true, false, nil},
		{"skip then failure", Chain{skip, fail}, false, false, ErrInvalidCredentials},
		{"internal error", Chain{boom, ok}, false, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.chain.Authenticate(ctx, &AuthRequest{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if result.Authenticated != tt.wantAuth {
				t.Errorf("Authenticated = %v, want %v", result.Authenticated, tt.wantAuth)
			}
			if tt.wantFail != nil && !errors.Is(result.Error, tt.wantFail) {
				t.Errorf("Error = %v, want %v", result.Error, tt.wantFail)
			}
		})
	}

	if !(Chain{skip, ok}).Supports(ctx, &AuthRequest{}) {
		t.Error("Supports() should be true when any member supports")
	}
	if (Chain{skip}).Supports(ctx, &AuthRequest{}) {
		t.Error("Supports() should be false when no member supports")
	}
}

type stubAuthenticator struct {
	name     string
	supports bool
	result   *AuthResult
	err      error
}

func (s *stubAuthenticator) Name() string { return s.name }

func (s *stubAuthenticator) Supports(context.Context, *AuthRequest) bool { return s.supports }

func (s *stubAuthenticator) Authenticate(context.Context, *AuthRequest) (*AuthResult, error) {
	return s.result, s.err
}
