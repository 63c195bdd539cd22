package database

import "errors"

var (
	// ErrUserHasReservation - the user already holds a reservation (one per user).
	ErrUserHasReservation = errors.New("user already has a reservation")

	// ErrSeatTaken - the seat has a live or upcoming reservation.
	ErrSeatTaken = errors.New("seat is already reserved")

	// ErrPastStart - the requested start time is not after the current time.
	ErrPastStart = errors.New("start time must be after the current time")

	// ErrInvalidSlot - the reservation does not span exactly one slot.
	ErrInvalidSlot = errors.New("reservation must last exactly one slot")

	// ErrNoReservation - cancellation requested with nothing to cancel.
	ErrNoReservation = errors.New("no reservation to cancel")

	// ErrNotFound - the requested row does not exist.
	ErrNotFound = errors.New("not found")
)
