// Package common defines the error kinds shared by the store, the auth
// primitives, the workflows and the HTTP edge. Callers match them with
// errors.Is.
package common

import "errors"

var (
	// Input errors.
	ErrValidation   = errors.New("validation error")
	ErrBodyTooLarge = errors.New("request body too large")

	// Store errors.
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")

	// Login errors. Unknown account and wrong password are the same error.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Bearer token errors.
	ErrMissingAuthHeader = errors.New("missing or malformed authorization header")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
)

// ValidationError is a rejected request with a message meant for the caller.
type ValidationError struct {
	Reason string
}

func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
