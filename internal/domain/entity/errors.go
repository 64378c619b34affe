package entity

import "errors"

var (
	// ErrEmailRequired is returned when a user operation is attempted
	// without an email address.
	ErrEmailRequired = errors.New("email is required")

	// ErrUserNotFound is returned when no user exists for the given email.
	ErrUserNotFound = errors.New("user not found")
)
