package model

import "errors"

var (
	// ErrNotFound is returned by stores when no matching row exists.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail maps the unique index violation on users.email.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers every session-token verification failure:
	// bad signature, malformed payload, elapsed expiry.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidResetToken is returned when a reset secret does not match
	// any stored digest or its expiry has passed.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	// ErrNotificationFailure is returned when the reset email could not be
	// dispatched and the persisted reset state was rolled back.
	ErrNotificationFailure = errors.New("notification dispatch failed")
)

// ValidationError reports caller-correctable input problems. The message is
// safe to surface to clients verbatim.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}
