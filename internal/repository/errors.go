package repository

import "errors"

var (
	// ErrDuplicate signals a unique-constraint violation (username, email,
	// booking reference).
	ErrDuplicate = errors.New("duplicate record")

	// ErrSeatTypeUnavailable means no seat allocation row exists for the
	// requested (event, seat_type). Missing allocation is not zero seats.
	ErrSeatTypeUnavailable = errors.New("seat type unavailable for this event")

	// ErrStateConflict means a guarded status transition matched no rows:
	// the booking was already cancelled or already paid when the write ran.
	ErrStateConflict = errors.New("booking is not in the required state")
)
