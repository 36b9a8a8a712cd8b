package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports a claim field that failed validation. Field
// holds the wire name of the offending field (e.g. "importe").
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q", e.Field)
}

// NewValidationError builds a ValidationError for the given wire field.
func NewValidationError(field string) error {
	return &ValidationError{Field: field}
}
