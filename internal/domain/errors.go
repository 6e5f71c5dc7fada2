package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when an entity or input fails validation.
	// It is usually wrapped with a field-specific message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or zero.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidStatus is returned when a task status is not one of the
	// known values.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes a single field failing a semantic rule.
// It wraps one of the sentinel errors above so callers can classify it
// with errors.Is while still surfacing the field-level message.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap returns the wrapped sentinel to support errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
