package reconcile

import (
	"errors"

	"stripe-sync/core/platform"
)

var (
	// ErrInvalidEmail is returned when a user-entered email fails syntax validation.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrUserNotFound is returned when no local user matches.
	ErrUserNotFound = platform.ErrUserNotFound
	// ErrCustomerNotFound is returned when the provider has no customer for the email.
	ErrCustomerNotFound = errors.New("no customer found for this email")
	// ErrUnknownEvent is returned by the dispatcher for unsupported event types.
	ErrUnknownEvent = errors.New("unknown event")
)
