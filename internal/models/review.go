package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"review"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}
