// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidPassword is returned when the password does not match the stored hash.
	// It is kept distinct from ErrUserNotFound so the API can report the two
	// failures with different messages.
	ErrInvalidPassword = errors.New("invalid password")
)

// ValidationError indicates that a signup field violates its constraint.
// Message is safe to return to the client as-is.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the user-facing validation message.
func (e *ValidationError) Error() string {
	return e.Message
}
