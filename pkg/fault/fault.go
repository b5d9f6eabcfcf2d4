// Package fault defines the error kinds shared by the services and mapped to
// status codes by the HTTP layer.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Domain packages wrap these so callers can test with errors.Is.
var (
	ErrInvalidID    = errors.New("invalid id")
	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrPersistence  = errors.New("persistence failure")
)

// FieldError reports which input fields failed a presence or format check.
type FieldError struct {
	Kind   error
	Fields []string
}

// Missing returns a FieldError of kind ErrMissingField.
func Missing(fields ...string) *FieldError {
	return &FieldError{Kind: ErrMissingField, Fields: fields}
}

// Invalid returns a FieldError of kind ErrInvalidField.
func Invalid(fields ...string) *FieldError {
	return &FieldError{Kind: ErrInvalidField, Fields: fields}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Fields, ", "))
}

func (e *FieldError) Unwrap() error { return e.Kind }

// Persistence wraps a storage failure so it matches ErrPersistence while
// keeping the driver error reachable through errors.As.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrPersistence, err))
}
