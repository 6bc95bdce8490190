package reservations

import "errors"

var (
	// ErrSlotUnavailable means the interval overlapped a blocking
	// reservation at commit time. Callers retry against fresh
	// availability, never blindly.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrInvalidStateTransition is returned for any move not in the
	// transition table. The entity is left unchanged.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrConflict is an optimistic-concurrency failure: the reservation
	// moved under us between read and guarded write
	ErrConflict = errors.New("reservation was modified concurrently")

	ErrReservationNotFound = errors.New("reservation not found")
	ErrNotOwned            = errors.New("reservation does not belong to this user")
	ErrCheckInWindow       = errors.New("check-in is outside the allowed window")
	ErrNoShowTooEarly      = errors.New("no-show cannot be marked before the grace period ends")
	ErrValidation          = errors.New("invalid reservation input")
)
