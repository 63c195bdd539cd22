package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handicapstudent/ppt-project/internal/models"
)

func newReservation(userID, seat string, start time.Time) *models.Reservation {
	return &models.Reservation{
		UserID:     userID,
		Restaurant: "한빛식당",
		Seat:       seat,
		StartTime:  start,
		EndTime:    start.Add(models.SlotDuration),
	}
}

func TestReserveSeat(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	r := newReservation("2021001", "0-3", now.Add(10*time.Minute))
	require.NoError(t, db.ReserveSeat(ctx, r, now))
	assert.NotZero(t, r.ID)

	got, err := db.GetUserReservation(ctx, "2021001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "0-3", got.Seat)
	assert.True(t, got.StartTime.Equal(r.StartTime))
	assert.True(t, got.EndTime.Equal(r.StartTime.Add(models.SlotDuration)))
}

func TestReserveSeat_InvalidSlotLength(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	r := newReservation("2021001", "0-3", now)
	r.EndTime = r.StartTime.Add(time.Hour)

	err := db.ReserveSeat(context.Background(), r, now)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestReserveSeat_OnePerUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	require.NoError(t, db.ReserveSeat(ctx, newReservation("2021001", "0-3", now), now))

	err := db.ReserveSeat(ctx, newReservation("2021001", "0-7", now), now)
	assert.ErrorIs(t, err, ErrUserHasReservation)
}

// A user's expired reservation still counts: the one-per-user rule is over
// all rows, not just live ones.
func TestReserveSeat_OnePerUserIncludesHistory(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	expired := newReservation("2021001", "0-3", now.Add(-2*time.Hour))
	require.NoError(t, db.SaveReservation(ctx, expired))

	err := db.ReserveSeat(ctx, newReservation("2021001", "0-7", now), now)
	assert.ErrorIs(t, err, ErrUserHasReservation)
}

func TestReserveSeat_SeatTaken(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	require.NoError(t, db.ReserveSeat(ctx, newReservation("2021001", "0-3", now), now))

	err := db.ReserveSeat(ctx, newReservation("2021002", "0-3", now.Add(5*time.Minute)), now)
	assert.ErrorIs(t, err, ErrSeatTaken)
}

// An upcoming reservation blocks the seat just like a live one.
func TestReserveSeat_PendingBlocksSeat(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	pending := newReservation("2021001", "0-3", now.Add(3*time.Hour))
	require.NoError(t, db.ReserveSeat(ctx, pending, now))

	err := db.ReserveSeat(ctx, newReservation("2021002", "0-3", now.Add(10*time.Minute)), now)
	assert.ErrorIs(t, err, ErrSeatTaken)
}

// A seat with only expired rows is bookable again; the history stays.
func TestReserveSeat_ExpiredRowsDoNotBlock(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	old := newReservation("2021001", "0-3", now.Add(-2*time.Hour))
	require.NoError(t, db.SaveReservation(ctx, old))

	require.NoError(t, db.ReserveSeat(ctx, newReservation("2021002", "0-3", now), now))

	all, err := db.ListReservations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// end_time strictly greater than now: a reservation ending exactly at now
// no longer holds the seat.
func TestIsSeatReserved_EndBoundary(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	r := newReservation("2021001", "0-3", now.Add(-models.SlotDuration))
	require.NoError(t, db.SaveReservation(ctx, r))

	reserved, err := db.IsSeatReserved(ctx, "한빛식당", "0-3", now)
	require.NoError(t, err)
	assert.False(t, reserved)

	reserved, err = db.IsSeatReserved(ctx, "한빛식당", "0-3", now.Add(-time.Second))
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestGetSeatReservation_LatestRowWins(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	require.NoError(t, db.SaveReservation(ctx, newReservation("2021001", "0-3", base.Add(-2*time.Hour))))
	require.NoError(t, db.SaveReservation(ctx, newReservation("2021002", "0-3", base)))
	require.NoError(t, db.SaveReservation(ctx, newReservation("2021003", "0-3", base.Add(-time.Hour))))

	got, err := db.GetSeatReservation(ctx, "한빛식당", "0-3")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2021002", got.UserID)
}

// Two rows with the same start time: the later insert wins.
func TestGetSeatReservation_IDTieBreak(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	require.NoError(t, db.SaveReservation(ctx, newReservation("2021001", "0-3", base)))
	require.NoError(t, db.SaveReservation(ctx, newReservation("2021002", "0-3", base)))

	got, err := db.GetSeatReservation(ctx, "한빛식당", "0-3")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2021002", got.UserID)
}

func TestGetSeatReservation_None(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	got, err := db.GetSeatReservation(context.Background(), "한빛식당", "0-3")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetUserReservation_None(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	got, err := db.GetUserReservation(context.Background(), "2021001")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCancelReservation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	require.NoError(t, db.ReserveSeat(ctx, newReservation("2021001", "0-3", now), now))
	require.NoError(t, db.CancelReservation(ctx, "2021001"))

	has, err := db.HasReservation(ctx, "2021001")
	require.NoError(t, err)
	assert.False(t, has)

	// seat frees up immediately
	require.NoError(t, db.ReserveSeat(ctx, newReservation("2021002", "0-3", now), now))
}

func TestCancelReservation_RemovesDuplicates(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	require.NoError(t, db.SaveReservation(ctx, newReservation("2021001", "0-3", now)))
	require.NoError(t, db.SaveReservation(ctx, newReservation("2021001", "0-7", now)))

	require.NoError(t, db.CancelReservation(ctx, "2021001"))

	all, err := db.ListReservations(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSearchReservations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	require.NoError(t, db.SaveReservation(ctx, newReservation("2021001", "0-3", now)))
	other := newReservation("2022042", "1-1", now)
	other.Restaurant = "별빛식당"
	require.NoError(t, db.SaveReservation(ctx, other))

	byUser, err := db.SearchReservations(ctx, "2021")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "2021001", byUser[0].UserID)

	byRestaurant, err := db.SearchReservations(ctx, "별빛")
	require.NoError(t, err)
	require.Len(t, byRestaurant, 1)
	assert.Equal(t, "2022042", byRestaurant[0].UserID)
}

func TestDeleteReservationByID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	r := newReservation("2021001", "0-3", now)
	require.NoError(t, db.SaveReservation(ctx, r))

	require.NoError(t, db.DeleteReservationByID(ctx, r.ID))
	assert.ErrorIs(t, db.DeleteReservationByID(ctx, r.ID), ErrNotFound)
}
