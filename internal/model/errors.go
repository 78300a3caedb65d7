package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Input errors
	ErrValidation = errors.New("invalid value")
)

// ValidationError describes a single rejected input value.
// It unwraps to ErrValidation so callers can match with errors.Is.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid value: %s", e.Reason)
	}
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
