package render

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrUnknownFormat = errors.New("render: unknown format")
	ErrUnknownTheme  = errors.New("render: unknown theme")
	ErrNilDocument   = errors.New("render: document is nil")
)

// RenderError reports a failed render. It wraps the underlying cause.
type RenderError struct {
	Format string
	Kind   Kind
	Err    error
}

// Error returns the error message.
func (e *RenderError) Error() string {
	return fmt.Sprintf("render: %s %s page: %v", e.Format, e.Kind, e.Err)
}

// Unwrap returns the cause.
func (e *RenderError) Unwrap() error {
	return e.Err
}
