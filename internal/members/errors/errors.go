package errors

import "errors"

var (
	ErrNotFound = errors.New("member not found")

	ErrInvalidID = errors.New("invalid member ID format")

	// ErrDuplicate is returned when the email, username or license number
	// is already registered.
	ErrDuplicate = errors.New("member already exists")
)
