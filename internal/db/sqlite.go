// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/timegrid/internal/schedule"
)

// SQLite implements schedule.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ schedule.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", withBusyTimeout(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Saves run from concurrent tea.Cmd goroutines; SQLite takes one writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// busyTimeoutMillis is how long a connection waits on a locked database.
const busyTimeoutMillis = 5000

func withBusyTimeout(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", path, sep, busyTimeoutMillis)
}

// Load returns every stored table and the table display order.
func (s *SQLite) Load(ctx context.Context) (schedule.Map, []string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM timetables ORDER BY position, id`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying timetables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	m := schedule.Map{}
	var order []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, nil, fmt.Errorf("scanning timetable: %w", err)
		}
		m[id] = nil
		order = append(order, id)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating timetables: %w", err)
	}

	query := `
		SELECT id, table_id, day, slots, title, room
		FROM schedule_entries
		ORDER BY table_id, position
	`
	entryRows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("querying entries: %w", err)
	}
	defer func() { _ = entryRows.Close() }()

	for entryRows.Next() {
		var (
			e       schedule.Entry
			tableID string
			slots   string
		)
		if err := entryRows.Scan(&e.ID, &tableID, &e.Day, &slots, &e.Title, &e.Room); err != nil {
			return nil, nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Range, err = decodeSlots(slots)
		if err != nil {
			return nil, nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		if _, ok := m[tableID]; !ok {
			order = append(order, tableID)
		}
		m[tableID] = append(m[tableID], &e)
	}
	if err := entryRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating entries: %w", err)
	}

	return m, order, nil
}

// SaveTable replaces the stored entries of one table, creating it if needed.
func (s *SQLite) SaveTable(ctx context.Context, tableID string, position int, entries []*schedule.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveTableTx(ctx, tx, tableID, position, entries); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// DeleteTable removes a table and its entries. The remaining tables are
// renumbered so later saves at the current display index keep their order.
func (s *SQLite) DeleteTable(ctx context.Context, tableID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_entries WHERE table_id = ?`, tableID); err != nil {
		return fmt.Errorf("deleting entries: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM timetables WHERE id = ?`, tableID)
	if err != nil {
		return fmt.Errorf("deleting timetable: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %q", schedule.ErrTableNotFound, tableID)
	}
	if err := renumberTables(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// SaveAll replaces everything in storage atomically.
func (s *SQLite) SaveAll(ctx context.Context, m schedule.Map, order []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_entries`); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM timetables`); err != nil {
		return fmt.Errorf("clearing timetables: %w", err)
	}

	for i, id := range order {
		entries, ok := m[id]
		if !ok {
			continue
		}
		if err := saveTableTx(ctx, tx, id, i, entries); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func saveTableTx(ctx context.Context, tx *sql.Tx, tableID string, position int, entries []*schedule.Entry) error {
	upsert := `
		INSERT INTO timetables (id, position) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET position = excluded.position
	`
	if _, err := tx.ExecContext(ctx, upsert, tableID, position); err != nil {
		return fmt.Errorf("saving timetable %s: %w", tableID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_entries WHERE table_id = ?`, tableID); err != nil {
		return fmt.Errorf("clearing entries of %s: %w", tableID, err)
	}

	insert := `
		INSERT INTO schedule_entries (id, table_id, position, day, slots, title, room)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for i, e := range entries {
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, insert, id, tableID, i, e.Day, encodeSlots(e.Range), e.Title, e.Room); err != nil {
			return fmt.Errorf("inserting entry %s: %w", schedule.FormatID(tableID, i), err)
		}
	}

	return nil
}

// renumberTables rewrites table positions as 0..n-1 in their stored order.
func renumberTables(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM timetables ORDER BY position, id`)
	if err != nil {
		return fmt.Errorf("querying timetables: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scanning timetable: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("iterating timetables: %w", err)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating timetables: %w", err)
	}

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE timetables SET position = ? WHERE id = ?`, i, id); err != nil {
			return fmt.Errorf("renumbering timetable %s: %w", id, err)
		}
	}
	return nil
}

// encodeSlots stores a range as "3,4,5".
func encodeSlots(slots []int) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

func decodeSlots(v string) ([]int, error) {
	if v == "" {
		return []int{}, nil
	}
	parts := strings.Split(v, ",")
	slots := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid slot %q: %w", p, err)
		}
		slots[i] = n
	}
	return slots, nil
}
