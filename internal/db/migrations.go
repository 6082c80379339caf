package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS timetables (
			id         TEXT PRIMARY KEY,
			position   INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS schedule_entries (
			id       TEXT PRIMARY KEY,
			table_id TEXT NOT NULL REFERENCES timetables(id),
			position INTEGER NOT NULL,
			day      TEXT NOT NULL,
			slots    TEXT NOT NULL,
			title    TEXT NOT NULL DEFAULT '',
			room     TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_entries_table ON schedule_entries(table_id, position);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating schedule tables: %w", err)
	}

	return nil
}
