package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fixed(name string, r Result) Checker {
	return Func(name, func(context.Context) Result { return r })
}

func TestAggregator_CheckAll(t *testing.T) {
	tests := []struct {
		name     string
		checkers []Checker
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Checker{fixed("a", Healthy("")), fixed("b", Healthy(""))}, StatusHealthy},
		{"one degraded", []Checker{fixed("a", Healthy("")), fixed("b", Degraded(""))}, StatusDegraded},
		{"unhealthy wins", []Checker{fixed("a", Degraded("")), fixed("b", Unhealthy("", nil))}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAggregator(time.Second, tt.checkers...).CheckAll(context.Background())
			if s.Status != tt.want {
				t.Errorf("CheckAll().Status = %v, want %v", s.Status, tt.want)
			}
			if len(s.Checks) != len(tt.checkers) {
				t.Errorf("Checks = %d, want %d", len(s.Checks), len(tt.checkers))
			}
		})
	}
}

func TestAggregator_Order(t *testing.T) {
	agg := NewAggregator(0)
	for _, n := range []string{"index", "cache", "memory"} {
		agg.Register(fixed(n, Healthy(n)))
	}
	agg.Register(fixed("cache", Degraded("replaced")))
	agg.Register(nil)

	names := agg.Names()
	want := []string{"index", "cache", "memory"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	s := agg.CheckAll(context.Background())
	for i, r := range s.Checks {
		if r.Name != want[i] {
			t.Errorf("Checks[%d].Name = %q, want %q", i, r.Name, want[i])
		}
	}
	if s.Checks[1].Result.Message != "replaced" {
		t.Errorf("cache check = %q, want the replacement", s.Checks[1].Result.Message)
	}
	if agg.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", agg.timeout, DefaultTimeout)
	}
}

func TestAggregator_Timeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	slow := Func("slow", func(ctx context.Context) Result {
		<-block
		return Healthy("late")
	})
	agg := NewAggregator(20*time.Millisecond, slow, fixed("fast", Healthy("")))

	s := agg.CheckAll(context.Background())
	if s.Status != StatusUnhealthy {
		t.Fatalf("Status = %v, want unhealthy", s.Status)
	}
	if !errors.Is(s.Checks[0].Result.Error, ErrCheckTimeout) {
		t.Errorf("slow error = %v, want ErrCheckTimeout", s.Checks[0].Result.Error)
	}
	if s.Checks[1].Result.Status != StatusHealthy {
		t.Errorf("fast status = %v, want healthy", s.Checks[1].Result.Status)
	}
}

func TestAggregator_Check(t *testing.T) {
	agg := NewAggregator(time.Second, fixed("index", Degraded("stale")))

	r, err := agg.Check(context.Background(), "index")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if r.Status != StatusDegraded || r.Timestamp.IsZero() {
		t.Errorf("Check() = %+v", r)
	}

	if _, err := agg.Check(context.Background(), "missing"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Check(missing) error = %v, want ErrCheckerNotFound", err)
	}
}
