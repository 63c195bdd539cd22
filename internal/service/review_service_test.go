package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handicapstudent/ppt-project/internal/database"
	"github.com/handicapstudent/ppt-project/internal/events"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Tick(time.Duration) (<-chan time.Time, func()) {
	ch := make(chan time.Time)
	return ch, func() {}
}

func setupReviewService(t *testing.T) (*ReviewService, *fixedClock, *events.EventBus) {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := &fixedClock{now: time.Date(2026, 9, 1, 13, 0, 0, 0, time.Local)}
	bus := events.NewEventBus()
	return NewReviewService(db, bus, clock, &logger), clock, bus
}

func TestSubmitReview(t *testing.T) {
	svc, clock, bus := setupReviewService(t)
	ctx := context.Background()

	var published int
	bus.Subscribe(events.EventReviewSubmitted, func(*events.Event) error {
		published++
		return nil
	})

	rv, err := svc.Submit(ctx, "2021001", "soup was good", 4)
	require.NoError(t, err)
	assert.NotZero(t, rv.ID)
	assert.True(t, rv.Timestamp.Equal(clock.now))
	assert.Equal(t, 1, published)

	list, err := svc.ListByUser(ctx, "2021001")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "soup was good", list[0].Text)
}

func TestSubmitReview_Validation(t *testing.T) {
	svc, _, _ := setupReviewService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "2021001", "   ", 3)
	assert.ErrorIs(t, err, ErrEmptyReview)

	_, err = svc.Submit(ctx, "2021001", "fine", 0)
	assert.ErrorIs(t, err, ErrBadRating)

	_, err = svc.Submit(ctx, "2021001", "fine", 6)
	assert.ErrorIs(t, err, ErrBadRating)
}

func TestUpdateReview(t *testing.T) {
	svc, clock, _ := setupReviewService(t)
	ctx := context.Background()

	rv, err := svc.Submit(ctx, "2021001", "ok", 3)
	require.NoError(t, err)

	clock.now = clock.now.Add(time.Hour)
	require.NoError(t, svc.Update(ctx, rv.ID, "actually great", 5))

	list, err := svc.ListByUser(ctx, "2021001")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "actually great", list[0].Text)
	assert.Equal(t, 5, list[0].Rating)
	assert.True(t, list[0].Timestamp.Equal(clock.now))

	assert.ErrorIs(t, svc.Update(ctx, rv.ID, "   ", 5), ErrEmptyReview)
}

func TestDeleteReview(t *testing.T) {
	svc, _, _ := setupReviewService(t)
	ctx := context.Background()

	rv, err := svc.Submit(ctx, "2021001", "meh", 2)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rv.ID))

	list, err := svc.ListByUser(ctx, "2021001")
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, svc.Delete(ctx, rv.ID), database.ErrNotFound)
}
