package cache

import (
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilStore       = errors.New("cache: store is nil")
	ErrNilRender      = errors.New("cache: render func is nil")
	ErrInvalidKey     = errors.New("cache: key is invalid")
	ErrKeyTooLong     = errors.New("cache: key exceeds max length")
	ErrUnknownBackend = errors.New("cache: unknown backend")
	ErrLocked         = errors.New("cache: store is locked by another process")
	ErrRenderPanic    = errors.New("cache: render panicked")
)

// ValidateKey checks if a derived key string is valid for storage.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
