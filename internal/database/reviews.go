package database

import (
	"context"
	"fmt"
	"time"

	"github.com/handicapstudent/ppt-project/internal/models"
)

// Review timestamps keep the original human-readable format rather than the
// reservation ISO layout; the admin tool displays them verbatim.
const reviewTimeLayout = "2006-01-02 15:04:05"

const reviewColumns = `id, user_id, review, rating, timestamp`

func scanReview(row interface{ Scan(dest ...any) error }) (*models.Review, error) {
	var (
		rv    models.Review
		tsStr string
	)
	if err := row.Scan(&rv.ID, &rv.UserID, &rv.Text, &rv.Rating, &tsStr); err != nil {
		return nil, err
	}
	ts, err := time.ParseInLocation(reviewTimeLayout, tsStr, time.Local)
	if err != nil {
		return nil, fmt.Errorf("failed to parse review timestamp %q: %w", tsStr, err)
	}
	rv.Timestamp = ts
	return &rv, nil
}

// CreateReview inserts a review, stamping it with now.
func (db *DB) CreateReview(ctx context.Context, rv *models.Review, now time.Time) error {
	result, err := db.ExecContext(ctx,
		`INSERT INTO reviews (user_id, review, rating, timestamp) VALUES (?, ?, ?, ?)`,
		rv.UserID, rv.Text, rv.Rating, now.Format(reviewTimeLayout))
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rv.ID = id
	rv.Timestamp = now
	return nil
}

// GetReviewsByUser returns the user's reviews, oldest first.
func (db *DB) GetReviewsByUser(ctx context.Context, userID string) ([]*models.Review, error) {
	return db.queryReviews(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE user_id = ? ORDER BY id`, userID)
}

// UpdateReview replaces the text and rating and refreshes the timestamp.
func (db *DB) UpdateReview(ctx context.Context, id int64, text string, rating int, now time.Time) error {
	result, err := db.ExecContext(ctx,
		`UPDATE reviews SET review = ?, rating = ?, timestamp = ? WHERE id = ?`,
		text, rating, now.Format(reviewTimeLayout), id)
	if err != nil {
		return fmt.Errorf("failed to update review %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReview removes a review by id.
func (db *DB) DeleteReview(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListReviews returns every review, newest first.
func (db *DB) ListReviews(ctx context.Context) ([]*models.Review, error) {
	return db.queryReviews(ctx, `SELECT `+reviewColumns+` FROM reviews ORDER BY id DESC`)
}

// SearchReviews matches user id or review text against the query.
func (db *DB) SearchReviews(ctx context.Context, q string) ([]*models.Review, error) {
	pattern := "%" + q + "%"
	return db.queryReviews(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE user_id LIKE ? OR review LIKE ? ORDER BY id DESC`,
		pattern, pattern)
}

func (db *DB) queryReviews(ctx context.Context, query string, args ...any) ([]*models.Review, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
