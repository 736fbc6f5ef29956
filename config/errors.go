package config

import "errors"

// Sentinel errors.
var (
	ErrInvalidConfig  = errors.New("config: invalid configuration")
	ErrConfigNotFound = errors.New("config: file not found")
)
