package session

import (
	"errors"

	"github.com/handicapstudent/ppt-project/internal/database"
)

// User-visible messages. Every rejection path produces a discrete, fixed
// string so callers (and tests) can match on identity.
const (
	MsgAlreadyReserved = "you already have a reservation"
	MsgSeatTaken       = "this seat is already reserved"
	MsgChooseFuture    = "choose a time after now"
	MsgNothingToCancel = "nothing to cancel"
	MsgCancelled       = "your reservation has been cancelled"
	MsgStorageFailure  = "the operation failed, please try again"
	MsgNotASeat        = "that position is not a reservable seat"
	MsgBusy            = "finish the current action first"
	MsgNoReservation   = "no current reservation"
)

var (
	// ErrNotASeat - the clicked position is not a reservable cell.
	ErrNotASeat = errors.New("not a reservable seat")

	// ErrBusy - another booking step is already in progress in this session.
	ErrBusy = errors.New("another action is in progress")

	// ErrNoSeatSelected - time confirm arrived without a selected seat.
	ErrNoSeatSelected = errors.New("no seat selected")
)

// UserMessage maps an error from a session operation to the message shown
// (and narrated) to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, database.ErrUserHasReservation):
		return MsgAlreadyReserved
	case errors.Is(err, database.ErrSeatTaken):
		return MsgSeatTaken
	case errors.Is(err, database.ErrPastStart):
		return MsgChooseFuture
	case errors.Is(err, database.ErrNoReservation):
		return MsgNothingToCancel
	case errors.Is(err, ErrNotASeat):
		return MsgNotASeat
	case errors.Is(err, ErrBusy):
		return MsgBusy
	case errors.Is(err, ErrNoSeatSelected):
		return MsgBusy
	default:
		return MsgStorageFailure
	}
}
