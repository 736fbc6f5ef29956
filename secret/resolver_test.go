package secret

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "jwt_key"), []byte("from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "blank"), []byte("\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	env := mapLookup(map[string]string{"JWT_KEY": "from-env", "KEY_NAME": "JWT_KEY"})
	r := NewResolver(&EnvProvider{lookup: env}, NewFileProvider(dir))
	r.lookup = env
	return r
}

func TestResolver_Resolve(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		in   string
		want string
	}{
		{"literal", "literal"},
		{"", ""},
		{"secretref:env:JWT_KEY", "from-env"},
		{"secretref:file:jwt_key", "from-file"},
		{"secretref:env:${KEY_NAME}", "from-env"},
		{"Bearer secretref:env:JWT_KEY", "Bearer from-env"},
		{"a=secretref:env:JWT_KEY b=secretref:file:jwt_key", "a=from-env b=from-file"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolver_Errors(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		in      string
		wantErr error
	}{
		{"secretref:vault:x", ErrUnknownProvider},
		{"secretref:env:NOPE", ErrMissingEnv},
		{"secretref:file:blank", ErrEmptySecret},
		{"secretref:", ErrInvalidRef},
		{"${NOPE}", ErrMissingEnv},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if _, err := r.Resolve(context.Background(), tt.in); !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
		})
	}

	if _, err := r.Resolve(context.Background(), "secretref:file:missing"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in       string
		provider string
		ref      string
		ok       bool
	}{
		{"secretref:env:KEY", "env", "KEY", true},
		{"secretref:file:/run/secrets/a:b", "file", "/run/secrets/a:b", true},
		{"secretref:env:", "", "", false},
		{"secretref::KEY", "", "", false},
		{"env:KEY", "", "", false},
	}

	for _, tt := range tests {
		provider, ref, ok := ParseRef(tt.in)
		if provider != tt.provider || ref != tt.ref || ok != tt.ok {
			t.Errorf("ParseRef(%q) = %q, %q, %v, want %q, %q, %v", tt.in, provider, ref, ok, tt.provider, tt.ref, tt.ok)
		}
	}
}

func TestDefault(t *testing.T) {
	t.Setenv("PICMENU_TEST_JWT", "k")

	got, err := Default().Resolve(context.Background(), "secretref:env:PICMENU_TEST_JWT")
	if err != nil || got != "k" {
		t.Errorf("Resolve() = %q, %v, want k", got, err)
	}
}
