package domain

import (
	"context"
	"time"

	"github.com/handicapstudent/ppt-project/internal/models"
)

// ReservationStore is the durable reservation state. ReserveSeat is the
// only write path that enforces the booking invariants; SaveReservation is
// a raw insert for callers that have already validated.
type ReservationStore interface {
	HasReservation(ctx context.Context, userID string) (bool, error)
	GetUserReservation(ctx context.Context, userID string) (*models.Reservation, error)
	GetSeatReservation(ctx context.Context, restaurant, seat string) (*models.Reservation, error)
	IsSeatReserved(ctx context.Context, restaurant, seat string, now time.Time) (bool, error)
	SaveReservation(ctx context.Context, r *models.Reservation) error
	ReserveSeat(ctx context.Context, r *models.Reservation, now time.Time) error
	CancelReservation(ctx context.Context, userID string) error
	ListReservations(ctx context.Context) ([]*models.Reservation, error)
	SearchReservations(ctx context.Context, q string) ([]*models.Reservation, error)
	DeleteReservationByID(ctx context.Context, id int64) error
}

type UserStore interface {
	SaveUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	SearchUsers(ctx context.Context, q string) ([]*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type ReviewStore interface {
	CreateReview(ctx context.Context, rv *models.Review, now time.Time) error
	GetReviewsByUser(ctx context.Context, userID string) ([]*models.Review, error)
	UpdateReview(ctx context.Context, id int64, text string, rating int, now time.Time) error
	DeleteReview(ctx context.Context, id int64) error
	ListReviews(ctx context.Context) ([]*models.Review, error)
	SearchReviews(ctx context.Context, q string) ([]*models.Review, error)
}

// StateRepository persists dialog state between client runs and backs the
// login rate limiter.
type StateRepository interface {
	GetState(ctx context.Context, userID string) (*models.SessionState, error)
	SetState(ctx context.Context, state *models.SessionState) error
	ClearState(ctx context.Context, userID string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Clock abstracts wall-clock access so sessions can be driven by a fake
// clock in tests. Tick returns a channel firing every interval and a stop
// function releasing its resources.
type Clock interface {
	Now() time.Time
	Tick(interval time.Duration) (<-chan time.Time, func())
}

// Announcer voices a message without blocking the caller. Implementations
// must be safe to call from the session even when narration is disabled.
type Announcer interface {
	Announce(text string)
}

// MenuFetcher returns the weekly menu table and the ordered weekday names.
type MenuFetcher interface {
	FetchWeek(ctx context.Context) (models.MenuTable, []string, error)
}
