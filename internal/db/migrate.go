package db

import (
	"database/sql"
	"fmt"
)

// All contains the ordered list of migrations to apply.
var All = []string{
	`CREATE TABLE extractions (
		id         TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL DEFAULT (datetime('now')),
		file_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE files (
		id            INTEGER PRIMARY KEY,
		file_path     TEXT UNIQUE NOT NULL,
		feature       TEXT NOT NULL,
		extraction_id TEXT NOT NULL REFERENCES extractions(id),
		created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE scenarios (
		id      INTEGER PRIMARY KEY,
		file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		rule    TEXT NOT NULL DEFAULT '',
		name    TEXT NOT NULL,
		line    INTEGER NOT NULL
	)`,
	`CREATE TABLE parts (
		id          INTEGER PRIMARY KEY,
		scenario_id INTEGER NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
		part        TEXT NOT NULL,
		action      TEXT NOT NULL,
		expected    TEXT NOT NULL
	)`,
	`CREATE TABLE requirements (
		part_id        INTEGER NOT NULL REFERENCES parts(id) ON DELETE CASCADE,
		requirement_id TEXT NOT NULL,
		position       INTEGER NOT NULL,
		PRIMARY KEY (part_id, position)
	)`,
	`CREATE INDEX requirements_by_id ON requirements(requirement_id)`,
}

func Migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`)
	if err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		return fmt.Errorf("checking schema_version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("initializing schema version: %w", err)
		}
	}

	var current int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := current; i < len(All); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec(All[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}

		if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("updating schema version to %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", i+1, err)
		}
	}

	return nil
}
