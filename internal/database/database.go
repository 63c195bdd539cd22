package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// DB is the single-file SQLite store shared by the client and the admin
// tool. One process opens it at a time; every operation runs its own
// short statement or transaction, so no connection is held across
// user-interaction latency.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	wrapped := &DB{DB: db, logger: logger}
	if err := wrapped.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	if err := wrapped.ensureUserCertColumns(); err != nil {
		return nil, fmt.Errorf("failed to migrate users table: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return wrapped, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reservations (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id TEXT,
            restaurant TEXT,
            seat TEXT,
            start_time TEXT,
            end_time TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS users (
            user_id TEXT PRIMARY KEY,
            password TEXT,
            security_question TEXT,
            security_answer TEXT,
            cert_path TEXT,
            cert_blob BLOB
        )`,
		`CREATE TABLE IF NOT EXISTS reviews (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id TEXT NOT NULL,
            review TEXT NOT NULL,
            rating INTEGER NOT NULL CHECK(rating >= 1 AND rating <= 5),
            timestamp TEXT NOT NULL
        )`,

		`CREATE INDEX IF NOT EXISTS idx_reservations_user_id ON reservations(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_seat ON reservations(restaurant, seat)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_end_time ON reservations(end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_user_id ON reviews(user_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// ensureUserCertColumns adds the certificate attachment columns to users
// tables created before the feature existed.
func (db *DB) ensureUserCertColumns() error {
	rows, err := db.Query(`PRAGMA table_info(users)`)
	if err != nil {
		return fmt.Errorf("failed to inspect users table: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return fmt.Errorf("failed to scan table info: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for col, ddl := range map[string]string{
		"cert_path": `ALTER TABLE users ADD COLUMN cert_path TEXT`,
		"cert_blob": `ALTER TABLE users ADD COLUMN cert_blob BLOB`,
	} {
		if existing[col] {
			continue
		}
		if _, err := db.Exec(ddl); err != nil && !isDuplicateColumn(err) {
			return fmt.Errorf("failed to add column %s: %w", col, err)
		}
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}

func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.DB.Close()
}
