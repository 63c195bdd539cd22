package models

// SessionState is the persistable part of a reservation session, keyed by
// user id. It lets a restarted client resume an open dialog.
type SessionState struct {
	UserID       string `json:"user_id"`
	Restaurant   string `json:"restaurant"`
	Step         string `json:"step"`
	SelectedSeat string `json:"selected_seat,omitempty"`
}
