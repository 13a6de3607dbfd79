package storage

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS web_sessions (
		id         TEXT PRIMARY KEY,
		username   TEXT NOT NULL,
		token      TEXT NOT NULL,
		user_id    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_web_sessions_expires_at ON web_sessions (expires_at)`,
	`CREATE TABLE IF NOT EXISTS fare_snapshots (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		username         TEXT NOT NULL,
		fare_id          TEXT NOT NULL,
		sector           TEXT NOT NULL,
		book_rcd         TEXT NOT NULL DEFAULT '',
		fare_code        TEXT NOT NULL DEFAULT '',
		fare_amount      REAL NOT NULL DEFAULT 0,
		currency         TEXT NOT NULL DEFAULT '',
		flight_date_from TEXT NOT NULL DEFAULT '',
		flight_date_to   TEXT NOT NULL DEFAULT '',
		valid_on_flight  TEXT NOT NULL DEFAULT '',
		searched_at      TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fare_snapshots_username ON fare_snapshots (username)`,
}

// Migrate creates the schema when missing. Safe to run on every startup.
func (s *storageImpl) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
