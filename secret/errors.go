package secret

import "errors"

// Sentinel errors.
var (
	ErrMissingEnv      = errors.New("secret: missing required environment variables")
	ErrUnknownProvider = errors.New("secret: provider not registered")
	ErrEmptySecret     = errors.New("secret: empty value")
	ErrInvalidRef      = errors.New("secret: invalid reference")
)
