package registry

import "errors"

var (
	// ErrNotFound indicates the referenced user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateIdentifier indicates the email or primary phone is already
	// used by a PENDING or APPROVED user.
	ErrDuplicateIdentifier = errors.New("identifier already registered")

	// ErrInvalidInput indicates a malformed or missing required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition indicates an approve/reject on a user whose status
	// is terminal in the other direction.
	ErrInvalidTransition = errors.New("invalid status transition")
)
