// Package schedule defines the timetable domain types and the store that owns them.
package schedule

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrEmptyRange     = errors.New("range must contain at least one slot")
	ErrNegativeSlot   = errors.New("slot index cannot be negative")
	ErrSlotOutOfRange = errors.New("slot index is past the last grid row")
	ErrUnknownDay     = errors.New("day is not a known day label")
	ErrInvalidTableID = errors.New("table id must be non-empty and cannot contain ':'")
)

// Domain errors.
var (
	ErrTableNotFound  = errors.New("table not found")
	ErrEntryNotFound  = errors.New("entry not found")
	ErrDuplicateTable = errors.New("table already exists")
	ErrDayOutOfRange  = errors.New("day offset moves entry outside the week")
)

// DefaultDayLabels is the horizontal axis of every table.
var DefaultDayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Entry is one block on a table: a day and the time slots it covers.
type Entry struct {
	ID    string `toml:"id,omitempty"` // storage row id, stable across moves
	Day   string `toml:"day"`
	Range []int  `toml:"range"` // slot indices, one grid row each
	Title string `toml:"title"`
	Room  string `toml:"room,omitempty"`
}

// Validate checks the entry against the given day labels.
func (e *Entry) Validate(days []string) error {
	if len(e.Range) == 0 {
		return ErrEmptyRange
	}
	for _, s := range e.Range {
		if s < 0 {
			return fmt.Errorf("%w: %d", ErrNegativeSlot, s)
		}
	}
	if !slices.Contains(days, e.Day) {
		return fmt.Errorf("%w: %q", ErrUnknownDay, e.Day)
	}
	return nil
}

// CheckSlots reports the first slot of r that is not a row of a grid with
// the given number of slots.
func CheckSlots(r []int, slots int) error {
	for _, v := range r {
		if v < 0 {
			return fmt.Errorf("%w: %d", ErrNegativeSlot, v)
		}
		if v >= slots {
			return fmt.Errorf("%w: %d (grid has %d slots)", ErrSlotOutOfRange, v, slots)
		}
	}
	return nil
}

// Span returns the first and last slot covered by the entry.
func (e *Entry) Span() (first, last int) {
	if len(e.Range) == 0 {
		return 0, 0
	}
	return slices.Min(e.Range), slices.Max(e.Range)
}

// Covers reports whether the entry occupies the given slot.
func (e *Entry) Covers(slot int) bool {
	return slices.Contains(e.Range, slot)
}

// Label returns a short display label.
func (e *Entry) Label() string {
	if e.Room == "" {
		return e.Title
	}
	return e.Title + " @" + e.Room
}

// withNewID returns a copy carrying a fresh storage id.
func (e *Entry) withNewID() *Entry {
	c := e.clone()
	c.ID = uuid.NewString()
	return c
}

func (e *Entry) clone() *Entry {
	c := *e
	c.Range = slices.Clone(e.Range)
	return &c
}

// Map maps a table id to its ordered entries.
// The index of an entry within its slice is part of its drag identity.
type Map map[string][]*Entry

// shallowCopy copies the outer map only. Entry slices and pointers are shared.
func (m Map) shallowCopy() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Lookup returns the entry at index in table, if any.
func (m Map) Lookup(tableID string, index int) (*Entry, bool) {
	entries, ok := m[tableID]
	if !ok || index < 0 || index >= len(entries) {
		return nil, false
	}
	return entries[index], true
}

// ValidateTableID checks that a table id can round-trip through a drag identifier.
func ValidateTableID(id string) error {
	if id == "" || strings.Contains(id, IDDelimiter) {
		return fmt.Errorf("%w: %q", ErrInvalidTableID, id)
	}
	return nil
}
