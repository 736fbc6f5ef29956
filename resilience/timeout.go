package resilience

import (
	"context"
	"errors"
	"time"
)

// WithTimeout runs op with a deadline of d. An attempt that overruns
// returns ErrTimeout wrapping context.DeadlineExceeded; a deadline or
// cancellation inherited from ctx is returned as is. A non-positive d runs
// op without a deadline.
//
// op keeps running in the background after an overrun until it observes
// its context; renderers must honor cancellation.
func WithTimeout(ctx context.Context, d time.Duration, op func(context.Context) error) error {
	if d <= 0 {
		return op(ctx)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(attemptCtx)
	}()

	select {
	case err := <-done:
		if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return timeoutError(d)
		}
		return err
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return timeoutError(d)
	}
}

type timeoutErr struct {
	d time.Duration
}

func timeoutError(d time.Duration) error {
	return &timeoutErr{d: d}
}

func (e *timeoutErr) Error() string {
	return ErrTimeout.Error() + " after " + e.d.String()
}

func (e *timeoutErr) Is(target error) bool {
	return target == ErrTimeout || target == context.DeadlineExceeded
}
