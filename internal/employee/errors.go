package employee

import (
	"errors"
	"fmt"
)

// sentinel errors for common failure modes
var (
	ErrNotFound       = errors.New("employee not found")
	ErrDuplicateEmail = errors.New("employee email already exists")
)

// ValidationError reports a malformed or out-of-range input field. It is
// produced at the boundary, before any storage access happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
