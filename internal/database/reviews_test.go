package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handicapstudent/ppt-project/internal/models"
)

func TestCreateAndListReviews(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Date(2026, 9, 1, 13, 30, 0, 0, time.Local)

	rv := &models.Review{UserID: "2021001", Text: "soup was good", Rating: 4}
	require.NoError(t, db.CreateReview(ctx, rv, now))
	assert.NotZero(t, rv.ID)
	assert.True(t, rv.Timestamp.Equal(now))

	byUser, err := db.GetReviewsByUser(ctx, "2021001")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "soup was good", byUser[0].Text)
	assert.True(t, byUser[0].Timestamp.Equal(now))
}

func TestUpdateReview_RefreshesTimestamp(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	created := time.Date(2026, 9, 1, 13, 30, 0, 0, time.Local)
	edited := created.Add(2 * time.Hour)

	rv := &models.Review{UserID: "2021001", Text: "ok", Rating: 3}
	require.NoError(t, db.CreateReview(ctx, rv, created))

	require.NoError(t, db.UpdateReview(ctx, rv.ID, "actually great", 5, edited))

	byUser, err := db.GetReviewsByUser(ctx, "2021001")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "actually great", byUser[0].Text)
	assert.Equal(t, 5, byUser[0].Rating)
	assert.True(t, byUser[0].Timestamp.Equal(edited))
}

func TestUpdateReview_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.UpdateReview(context.Background(), 12345, "x", 1, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReview(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	rv := &models.Review{UserID: "2021001", Text: "meh", Rating: 2}
	require.NoError(t, db.CreateReview(ctx, rv, time.Now()))

	require.NoError(t, db.DeleteReview(ctx, rv.ID))
	assert.ErrorIs(t, db.DeleteReview(ctx, rv.ID), ErrNotFound)
}

func TestSearchReviews(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	require.NoError(t, db.CreateReview(ctx, &models.Review{UserID: "2021001", Text: "soup was good", Rating: 4}, now))
	require.NoError(t, db.CreateReview(ctx, &models.Review{UserID: "2022042", Text: "too salty", Rating: 2}, now))

	byText, err := db.SearchReviews(ctx, "soup")
	require.NoError(t, err)
	require.Len(t, byText, 1)
	assert.Equal(t, "2021001", byText[0].UserID)

	byUser, err := db.SearchReviews(ctx, "2022")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "too salty", byUser[0].Text)
}
