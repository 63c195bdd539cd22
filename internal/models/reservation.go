package models

import "time"

// TimeLayout is the ISO-8601 local timestamp format stored in SQLite.
// No timezone suffix: the application deals in wall-clock time only,
// and lexicographic comparison of stored values matches time order.
const TimeLayout = "2006-01-02T15:04:05"

// SlotDuration is the fixed length of every reservation slot.
const SlotDuration = 30 * time.Minute

type Reservation struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	Restaurant string    `json:"restaurant"`
	Seat       string    `json:"seat"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

// Active reports whether the reservation is live or still upcoming at now.
func (r *Reservation) Active(now time.Time) bool {
	return r.EndTime.After(now)
}

// Occupies reports whether now falls inside [StartTime, EndTime).
func (r *Reservation) Occupies(now time.Time) bool {
	return !now.Before(r.StartTime) && now.Before(r.EndTime)
}

// SeatStatus is the derived display state of a reservable seat.
type SeatStatus string

const (
	SeatFree     SeatStatus = "free"
	SeatPending  SeatStatus = "pending"
	SeatOccupied SeatStatus = "occupied"
)

// Bookable reports whether a seat in this status accepts a new booking.
// Pending blocks booking just like occupied does, so coloring and
// click-enablement always agree.
func (s SeatStatus) Bookable() bool {
	return s == SeatFree
}
