package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	ErrNotFound  = errors.New("resolve: not found")
	ErrAmbiguous = errors.New("resolve: ambiguous")
	ErrNilIndex  = errors.New("resolve: index is nil")
)

// NotFoundError reports that nothing matched Query at Nav, including a
// numeric index or page out of range.
type NotFoundError struct {
	Query string
	Nav   Nav

	// Page is the requested page when the page was out of range.
	Page int
}

// Error returns the error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resolve: no match for %q at %s", e.Query, e.Nav)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AmbiguityError reports that Query matched several entries equally well.
// Candidates are ranked and numbered by their visible position.
type AmbiguityError struct {
	Query      string
	Nav        Nav
	Candidates []Candidate
}

// Error returns the error message.
func (e *AmbiguityError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.Entry.Name
	}
	return fmt.Sprintf("resolve: %q at %s is ambiguous: %s", e.Query, e.Nav, strings.Join(names, ", "))
}

// Is reports whether target is ErrAmbiguous.
func (e *AmbiguityError) Is(target error) bool {
	return target == ErrAmbiguous
}
