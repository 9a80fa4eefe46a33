// Package errs defines the error kinds recovered at the request boundary.
// None of them are process-fatal: not-found and policy-hidden render the
// same generic 404 page, wrong-actor renders 403, uniqueness conflicts and
// validation failures re-render the offending form.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both "entity absent" and "hidden by access
	// policy"; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means authenticated but not authorized.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is a uniqueness violation (email, username, slug,
	// review pair).
	ErrConflict = errors.New("conflict")
)

// ValidationError is a field-level failure surfaced to the actor with the
// offending field identified.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a field-level error.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
