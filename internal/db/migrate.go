package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so the
// whole list runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS test_case_sets (
		id          TEXT PRIMARY KEY,
		team_id     TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_default  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE (team_id, name)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_test_case_sets_team ON test_case_sets(team_id)`,

	`CREATE TABLE IF NOT EXISTS sections (
		id         TEXT PRIMARY KEY,
		set_id     TEXT NOT NULL REFERENCES test_case_sets(id) ON DELETE CASCADE,
		parent_id  TEXT REFERENCES sections(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sections_set ON sections(set_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sections_parent ON sections(parent_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sections_unassigned ON sections(set_id) WHERE name = 'Unassigned'`,

	`CREATE TABLE IF NOT EXISTS test_cases (
		id         TEXT PRIMARY KEY,
		set_id     TEXT NOT NULL REFERENCES test_case_sets(id) ON DELETE CASCADE,
		section_id TEXT NOT NULL REFERENCES sections(id),
		number     TEXT NOT NULL DEFAULT '',
		title      TEXT NOT NULL,
		priority   TEXT NOT NULL DEFAULT 'medium'
		           CHECK(priority IN ('high','medium','low')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`ALTER TABLE test_cases ADD COLUMN tcg_ticket TEXT NOT NULL DEFAULT ''`,

	`CREATE INDEX IF NOT EXISTS idx_test_cases_set ON test_cases(set_id)`,
	`CREATE INDEX IF NOT EXISTS idx_test_cases_section ON test_cases(section_id)`,
}
