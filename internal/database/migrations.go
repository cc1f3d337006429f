package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_at TEXT DEFAULT (datetime('now')),
    files INTEGER DEFAULT 0,
    records INTEGER DEFAULT 0,
    duplicates_removed INTEGER DEFAULT 0,
    sessions INTEGER DEFAULT 0,
    binge_sessions INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_categories (
    run_id INTEGER NOT NULL REFERENCES runs(id),
    category TEXT NOT NULL,
    count INTEGER DEFAULT 0,
    PRIMARY KEY (run_id, category)
);

CREATE TABLE IF NOT EXISTS run_interests (
    run_id INTEGER NOT NULL REFERENCES runs(id),
    interest TEXT NOT NULL,
    count INTEGER DEFAULT 0,
    PRIMARY KEY (run_id, interest)
);

CREATE TABLE IF NOT EXISTS interests (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    keywords TEXT,
    is_active INTEGER DEFAULT 1,
    created_at TEXT DEFAULT (datetime('now')),
    updated_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_run_categories_run ON run_categories(run_id);
CREATE INDEX IF NOT EXISTS idx_run_interests_run ON run_interests(run_id);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
