package secret

import (
	"errors"
	"strings"
	"testing"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestExpandEnv(t *testing.T) {
	env := mapLookup(map[string]string{"KEY": "s3cret", "EMPTY": ""})

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"${KEY}", "s3cret"},
		{"$KEY-x", "s3cret-x"},
		{"${EMPTY}", ""},
		{"$UNSET", ""},
		{"$$${KEY}", "$s3cret"},
		{"cost $$5", "cost $5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandEnv(tt.in, env)
			if err != nil {
				t.Fatalf("ExpandEnv(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandEnv_Missing(t *testing.T) {
	_, err := ExpandEnv("${B} ${A} ${B}", mapLookup(nil))
	if !errors.Is(err, ErrMissingEnv) {
		t.Fatalf("ExpandEnv() error = %v, want ErrMissingEnv", err)
	}
	if !strings.HasSuffix(err.Error(), ": A, B") {
		t.Errorf("error = %q, want sorted unique names", err)
	}
}

func TestExpandEnv_ProcessEnv(t *testing.T) {
	t.Setenv("PICMENU_TEST_SECRET", "v")

	got, err := ExpandEnv("${PICMENU_TEST_SECRET}", nil)
	if err != nil || got != "v" {
		t.Errorf("ExpandEnv() = %q, %v, want v", got, err)
	}
}
