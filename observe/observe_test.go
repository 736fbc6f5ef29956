package observe

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"valid minimal", Config{ServiceName: "picmenu"}, nil},
		{"missing service name", Config{}, ErrMissingServiceName},
		{
			"bad tracing exporter",
			Config{ServiceName: "picmenu", Tracing: TracingConfig{Enabled: true, Exporter: "jaeger"}},
			ErrInvalidTracingExporter,
		},
		{
			"bad sample pct",
			Config{ServiceName: "picmenu", Tracing: TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.5}},
			ErrInvalidSamplePct,
		},
		{
			"disabled tracing ignores exporter",
			Config{ServiceName: "picmenu", Tracing: TracingConfig{Exporter: "jaeger"}},
			nil,
		},
		{
			"bad metrics exporter",
			Config{ServiceName: "picmenu", Metrics: MetricsConfig{Enabled: true, Exporter: "statsd"}},
			ErrInvalidMetricsExporter,
		},
		{
			"bad log level",
			Config{ServiceName: "picmenu", Logging: LoggingConfig{Enabled: true, Level: "trace"}},
			ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_Noops(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "picmenu"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Fatal("NewObserver() returned nil primitives")
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_Enabled(t *testing.T) {
	var out bytes.Buffer
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "picmenu",
		Version:     "test",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
		Output:      &out,
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver() error = %v", err)
	}
	mw.Logger().Info(context.Background(), "ready")
	if !bytes.Contains(out.Bytes(), []byte(`"msg":"ready"`)) {
		t.Errorf("log output = %q, want ready message", out.String())
	}

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestMiddlewareFromObserver_Nil(t *testing.T) {
	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("MiddlewareFromObserver(nil) error = %v, want ErrNilObserver", err)
	}
}
