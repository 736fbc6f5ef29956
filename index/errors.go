package index

import "errors"

// Sentinel errors for index operations.
var (
	ErrNilSnapshot = errors.New("index: snapshot is nil")
	ErrNoMatcher   = errors.New("index: phonetic search requires a matcher")
	ErrNotBuilt    = errors.New("index: no index has been built")
)
