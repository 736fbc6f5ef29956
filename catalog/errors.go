package catalog

import "errors"

// Sentinel errors for catalog operations.
var (
	ErrNilSource       = errors.New("catalog: source is nil")
	ErrInvalidSnapshot = errors.New("catalog: snapshot is invalid")
	ErrEmptyName       = errors.New("catalog: name is required")
	ErrDuplicateID     = errors.New("catalog: duplicate identifier")
)
