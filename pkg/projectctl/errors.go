package projectctl

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested project row does not exist.
	ErrNotFound = errors.New("project not found")

	// ErrForbidden is returned when the project exists but the requesting
	// user is not its owner. Ownership is checked explicitly, not folded
	// into the query filter.
	ErrForbidden = errors.New("not the project owner")
)

// ValidationError reports input that failed a lifecycle invariant. It is
// always raised before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
