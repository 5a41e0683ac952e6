package repository

import "errors"

// Expected, recoverable conditions surfaced verbatim to callers.
var (
	// ErrConflict means the candidate window overlaps an upcoming or
	// active booking on the same slot, or the slot is unavailable.
	ErrConflict = errors.New("slot is not available for the requested window")

	// ErrStaleState means a compare-and-swap transition lost a race:
	// the booking's status changed between read and commit.
	ErrStaleState = errors.New("booking state changed concurrently")

	// ErrInvalidTransition means the requested event is not legal from
	// the booking's current status.
	ErrInvalidTransition = errors.New("transition not allowed from current booking status")

	// ErrNotFound covers unknown slots, bookings, booking codes and
	// payment order references.
	ErrNotFound = errors.New("record not found")

	// ErrSlotNumberTaken means a slot with the same number already exists.
	ErrSlotNumberTaken = errors.New("slot number already exists")

	// ErrSlotInUse refuses deleting a slot that still has a
	// non-terminal booking.
	ErrSlotInUse = errors.New("slot has upcoming or active bookings")
)
