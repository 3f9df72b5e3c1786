package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS issues (
		id         TEXT PRIMARY KEY,
		subject    TEXT NOT NULL DEFAULT '',
		start_date TEXT,
		due_date   TEXT,
		parent_id  TEXT,
		leaf       INTEGER NOT NULL DEFAULT 1,
		milestone  INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_parent ON issues(parent_id)`,

	`CREATE TABLE IF NOT EXISTS relations (
		id         TEXT PRIMARY KEY,
		from_id    TEXT NOT NULL,
		to_id      TEXT NOT NULL,
		type       TEXT NOT NULL
		           CHECK(type IN ('precedes','blocks','relates','copied_to','duplicates')),
		delay      INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		UNIQUE(from_id, to_id, type)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_relations_from ON relations(from_id)`,
	`CREATE INDEX IF NOT EXISTS idx_relations_to ON relations(to_id)`,
}
