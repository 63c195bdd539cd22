package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/handicapstudent/ppt-project/internal/models"
)

const reservationColumns = `id, user_id, restaurant, seat, start_time, end_time`

func scanReservation(row interface{ Scan(dest ...any) error }) (*models.Reservation, error) {
	var (
		r                models.Reservation
		startStr, endStr string
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.Restaurant, &r.Seat, &startStr, &endStr); err != nil {
		return nil, err
	}

	var err error
	r.StartTime, err = time.ParseInLocation(models.TimeLayout, startStr, time.Local)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start_time %q: %w", startStr, err)
	}
	r.EndTime, err = time.ParseInLocation(models.TimeLayout, endStr, time.Local)
	if err != nil {
		return nil, fmt.Errorf("failed to parse end_time %q: %w", endStr, err)
	}
	return &r, nil
}

// HasReservation reports whether any reservation row exists for the user,
// live or historical. This is the gate for the one-reservation-per-user rule.
func (db *DB) HasReservation(ctx context.Context, userID string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check user reservation: %w", err)
	}
	return count > 0, nil
}

// GetUserReservation returns the user's reservation, or nil when none exists.
func (db *DB) GetUserReservation(ctx context.Context, userID string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
              WHERE user_id = ? ORDER BY id DESC LIMIT 1`
	r, err := scanReservation(db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user reservation: %w", err)
	}
	return r, nil
}

// GetSeatReservation returns the most recent reservation row for the seat,
// or nil when the seat has never been reserved. Past rows accumulate as
// history, so the latest one wins: start_time descending, row id as the
// tie-break.
func (db *DB) GetSeatReservation(ctx context.Context, restaurant, seat string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
              WHERE restaurant = ? AND seat = ?
              ORDER BY start_time DESC, id DESC LIMIT 1`
	r, err := scanReservation(db.QueryRowContext(ctx, query, restaurant, seat))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get seat reservation: %w", err)
	}
	return r, nil
}

// IsSeatReserved is the authoritative bookability check: true iff a row for
// the seat ends after now. An upcoming (pending) reservation blocks the
// seat the same way a live one does.
func (db *DB) IsSeatReserved(ctx context.Context, restaurant, seat string, now time.Time) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE restaurant = ? AND seat = ? AND end_time > ?`,
		restaurant, seat, now.Format(models.TimeLayout)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check seat reservation: %w", err)
	}
	return count > 0, nil
}

// SaveReservation inserts a row without any invariant checks. Callers that
// need the checks should use ReserveSeat instead.
func (db *DB) SaveReservation(ctx context.Context, r *models.Reservation) error {
	query := `INSERT INTO reservations (user_id, restaurant, seat, start_time, end_time)
              VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		r.UserID, r.Restaurant, r.Seat,
		r.StartTime.Format(models.TimeLayout),
		r.EndTime.Format(models.TimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save reservation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	r.ID = id
	return nil
}

// ReserveSeat re-checks both booking invariants and inserts inside a single
// transaction, making the store the sole invariant enforcer: no reservation
// row may exist for the user, and no row for the seat may end after now.
func (db *DB) ReserveSeat(ctx context.Context, r *models.Reservation, now time.Time) error {
	if !r.EndTime.Equal(r.StartTime.Add(models.SlotDuration)) {
		return ErrInvalidSlot
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var userCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE user_id = ?`, r.UserID).Scan(&userCount)
	if err != nil {
		return fmt.Errorf("failed to check user reservation in tx: %w", err)
	}
	if userCount > 0 {
		return ErrUserHasReservation
	}

	var seatCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE restaurant = ? AND seat = ? AND end_time > ?`,
		r.Restaurant, r.Seat, now.Format(models.TimeLayout)).Scan(&seatCount)
	if err != nil {
		return fmt.Errorf("failed to check seat reservation in tx: %w", err)
	}
	if seatCount > 0 {
		return ErrSeatTaken
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (user_id, restaurant, seat, start_time, end_time)
         VALUES (?, ?, ?, ?, ?)`,
		r.UserID, r.Restaurant, r.Seat,
		r.StartTime.Format(models.TimeLayout),
		r.EndTime.Format(models.TimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reservation in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	r.ID = id

	return tx.Commit()
}

// CancelReservation deletes every row for the user. Deleting all rows is
// deliberate: it also cleans up any duplicate that slipped past the
// one-per-user check.
func (db *DB) CancelReservation(ctx context.Context, userID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM reservations WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}
	return nil
}

// ListReservations returns every reservation row, newest first.
func (db *DB) ListReservations(ctx context.Context) ([]*models.Reservation, error) {
	return db.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations ORDER BY id DESC`)
}

// SearchReservations matches user id, restaurant or seat against the query.
func (db *DB) SearchReservations(ctx context.Context, q string) ([]*models.Reservation, error) {
	pattern := "%" + q + "%"
	return db.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations
         WHERE user_id LIKE ? OR restaurant LIKE ? OR seat LIKE ?
         ORDER BY id DESC`, pattern, pattern, pattern)
}

// DeleteReservationByID removes a single row, used by the admin tool.
func (db *DB) DeleteReservationByID(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) queryReservations(ctx context.Context, query string, args ...any) ([]*models.Reservation, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}
