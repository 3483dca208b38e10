package errors

import "errors"

var (
	ErrNotFound = errors.New("schedule not found")

	ErrInvalidID = errors.New("invalid schedule ID format")

	// ErrSlotTaken is returned when the agent already has a schedule at
	// exactly the requested time.
	ErrSlotTaken = errors.New("schedule time slot already taken")
)
