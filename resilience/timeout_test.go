package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithTimeout(t *testing.T) {
	tests := []struct {
		name    string
		d       time.Duration
		op      func(context.Context) error
		wantErr error
	}{
		{"fast success", time.Second, succeed, nil},
		{"fast failure", time.Second, fail, errRender},
		{"no deadline", 0, succeed, nil},
		{
			"overrun",
			10 * time.Millisecond,
			func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WithTimeout(context.Background(), tt.d, tt.op)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("WithTimeout() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("WithTimeout() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithTimeout_MatchesDeadlineExceeded(t *testing.T) {
	err := WithTimeout(context.Background(), time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WithTimeout() error = %v, want it to match context.DeadlineExceeded", err)
	}
}

func TestWithTimeout_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	err := WithTimeout(ctx, time.Hour, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) || errors.Is(err, ErrTimeout) {
		t.Errorf("WithTimeout() error = %v, want context.Canceled only", err)
	}
}
