package database

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the path to the single shared database
func DBPath() string {
	return filepath.Join("data", "circaterm.db")
}

// EnsureUserSchema ensures that the user-specific tables (like profiles) exist.
func EnsureUserSchema(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database to ensure schema: %w", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			day_length_seconds REAL NOT NULL,
			reference_start DATETIME NOT NULL,
			reference_day_index INTEGER NOT NULL DEFAULT 0,
			wake_offset_seconds REAL,
			sleep_duration_seconds REAL,
			place_name TEXT,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			timezone TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_name ON profiles(name);
	`)
	if err != nil {
		return fmt.Errorf("creating profiles table: %w", err)
	}

	return nil
}
