package errors

import "errors"

var (
	ErrNotFound = errors.New("wishlist entry not found")

	ErrInvalidID = errors.New("invalid wishlist ID format")

	// ErrDuplicate is returned when the client already saved the property.
	ErrDuplicate = errors.New("property already in wishlist")
)
