package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/handicapstudent/ppt-project/internal/models"
)

const userColumns = `user_id, password, security_question, security_answer, cert_path, cert_blob`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var (
		u        models.User
		certPath sql.NullString
	)
	if err := row.Scan(&u.UserID, &u.Password, &u.SecurityQuestion, &u.SecurityAnswer, &certPath, &u.CertBlob); err != nil {
		return nil, err
	}
	u.CertPath = certPath.String
	return &u, nil
}

// SaveUser inserts or replaces the account row. Passwords are stored as
// given; this application does no credential hardening.
func (db *DB) SaveUser(ctx context.Context, u *models.User) error {
	query := `INSERT OR REPLACE INTO users
                (user_id, password, security_question, security_answer, cert_path, cert_blob)
              VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		u.UserID, u.Password, u.SecurityQuestion, u.SecurityAnswer,
		sql.NullString{String: u.CertPath, Valid: u.CertPath != ""}, u.CertBlob)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// GetUser returns the account row, or ErrNotFound.
func (db *DB) GetUser(ctx context.Context, userID string) (*models.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// ListUsers returns every account.
func (db *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	return db.queryUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY user_id`)
}

// SearchUsers matches user ids against the query.
func (db *DB) SearchUsers(ctx context.Context, q string) ([]*models.User, error) {
	return db.queryUsers(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id LIKE ? ORDER BY user_id`,
		"%"+q+"%")
}

// DeleteUser removes the account, used by the admin tool.
func (db *DB) DeleteUser(ctx context.Context, userID string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) queryUsers(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
