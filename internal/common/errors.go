package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Post errors
	ErrPostNotFound  = errors.New("post not found")
	ErrMissingFields = errors.New("Please fill out all fields.") //nolint:revive,stylecheck // shown verbatim to users

	// Comment errors
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyComment    = errors.New("Comment cannot be empty.") //nolint:revive,stylecheck // shown verbatim to users

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("Invalid login credentials") //nolint:revive,stylecheck // shown verbatim to users
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("User already registered") //nolint:revive,stylecheck // shown verbatim to users

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// ValidationError carries a user facing message and matches ErrInvalidInput
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap lets errors.Is(err, ErrInvalidInput) match
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError creates a ValidationError
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
