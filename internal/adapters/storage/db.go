package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// The front-end persists only sessions; all domain state lives in
	// the backend.
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		token TEXT PRIMARY KEY,
		bearer_token TEXT NOT NULL,
		username TEXT NOT NULL,
		display_name TEXT NOT NULL,
		role TEXT NOT NULL,
		role_display TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_session_bearer ON session(bearer_token);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
