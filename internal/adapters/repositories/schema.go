package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite issue schema. Timestamps are unix milliseconds.
func InitSchema(db *sql.DB) error {
	return initSchema(db, []string{
		`
		CREATE TABLE IF NOT EXISTS issues (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			route_points TEXT NOT NULL DEFAULT '[]',
			user_id TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL,
			updated_at INTEGER
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_issues_expires_at
		ON issues(expires_at, created_at);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_issues_user_id
		ON issues(user_id, created_at);
		`,
		`
		CREATE TABLE IF NOT EXISTS user_points (
			user_id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			points INTEGER NOT NULL DEFAULT 0,
			issues_reported INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		`,
	})
}

// Initialize the Postgres issue schema.
func InitPostgresSchema(db *sql.DB) error {
	return initSchema(db, []string{
		`
		CREATE TABLE IF NOT EXISTS issues (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			route_points JSONB NOT NULL DEFAULT '[]'::jsonb,
			user_id TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_issues_expires_at
		ON issues(expires_at, created_at DESC);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_issues_user_id
		ON issues(user_id, created_at DESC);
		`,
		`
		CREATE TABLE IF NOT EXISTS user_points (
			user_id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			points INTEGER NOT NULL DEFAULT 0,
			issues_reported INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_user_points_points
		ON user_points(points DESC);
		`,
	})
}

func initSchema(db *sql.DB, statements []string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
