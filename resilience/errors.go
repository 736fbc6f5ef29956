package resilience

import "errors"

// Sentinel errors.
var (
	ErrCircuitOpen  = errors.New("resilience: circuit breaker is open")
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")
	ErrTimeout      = errors.New("resilience: operation timed out")
	ErrRateLimited  = errors.New("resilience: rate limit exceeded")
)

// permanentError marks an error that retrying cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. It returns nil for nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err, or any error it wraps, was marked with
// Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// rejection reports whether err came from the guard itself rather than from
// the guarded operation.
func rejection(err error) bool {
	return errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrBulkheadFull) || errors.Is(err, ErrRateLimited)
}
