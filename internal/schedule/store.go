package schedule

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Move describes a committed move of one entry.
type Move struct {
	TableID    string
	Index      int
	DayOffset  int
	TimeOffset int
	Before     *Entry
	After      *Entry
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDayLabels sets the ordered day labels. The slice is copied.
func WithDayLabels(days []string) StoreOption {
	return func(s *Store) {
		if len(days) > 0 {
			s.days = slices.Clone(days)
		}
	}
}

// WithPolicy sets the move guards.
func WithPolicy(p Policy) StoreOption {
	return func(s *Store) {
		s.policy = p
	}
}

// Store owns the schedule map. Every write builds a new map and swaps it in,
// so a snapshot handed out earlier is never modified.
type Store struct {
	mu     sync.RWMutex
	tables Map
	order  []string
	days   []string
	policy Policy

	seq uint64 // write counter, guarded by mu

	subsMu  sync.Mutex
	subs    map[int]func(Map)
	nextSub int

	notifyMu  sync.Mutex
	delivered uint64
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		tables: Map{},
		days:   slices.Clone(DefaultDayLabels),
		policy: DefaultPolicy(),
		subs:   make(map[int]func(Map)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current map. Callers must not modify it.
func (s *Store) Snapshot() Map {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tables
}

// Tables returns table ids in display order.
func (s *Store) Tables() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Days returns the day labels.
func (s *Store) Days() []string {
	return slices.Clone(s.days)
}

// Policy returns the move guards in effect.
func (s *Store) Policy() Policy {
	return s.policy
}

// Subscribe registers fn to receive new snapshots. Deliveries are serialized
// and never go backwards: a snapshot older than one already delivered is
// skipped. fn must not write to the store.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Map)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

// Update replaces the map with fn(prev). fn runs exactly once, under the
// write lock, and must return a new map instead of modifying prev.
func (s *Store) Update(fn func(prev Map) Map) {
	s.mu.Lock()
	next := fn(s.tables)
	if next == nil {
		next = Map{}
	}
	s.swap(next, nil)
	snap, seq := s.publish()
	s.mu.Unlock()

	s.notify(snap, seq)
}

// ApplyMove shifts the entry at index in tableID by the given day and slot
// offsets. Only the moved table's slice and the moved entry are replaced.
func (s *Store) ApplyMove(tableID string, index, dayOffset, timeOffset int) (Move, error) {
	s.mu.Lock()

	entries, ok := s.tables[tableID]
	if !ok {
		s.mu.Unlock()
		return Move{}, fmt.Errorf("%w: %q", ErrTableNotFound, tableID)
	}
	if index < 0 || index >= len(entries) {
		s.mu.Unlock()
		return Move{}, fmt.Errorf("%w: %s", ErrEntryNotFound, FormatID(tableID, index))
	}

	before := entries[index]
	after, err := before.moved(s.days, dayOffset, timeOffset, s.policy)
	if err != nil {
		s.mu.Unlock()
		return Move{}, err
	}

	list := slices.Clone(entries)
	list[index] = after
	next := s.tables.shallowCopy()
	next[tableID] = list
	s.tables = next
	snap, seq := s.publish()
	s.mu.Unlock()

	s.notify(snap, seq)
	return Move{
		TableID:    tableID,
		Index:      index,
		DayOffset:  dayOffset,
		TimeOffset: timeOffset,
		Before:     before,
		After:      after,
	}, nil
}

// Replace swaps in a whole map, e.g. after loading from storage.
// order lists tables in display order; tables missing from it are appended
// in name order.
func (s *Store) Replace(m Map, order []string) {
	s.mu.Lock()
	next := m.shallowCopy()
	s.order = nil
	s.swap(next, order)
	snap, seq := s.publish()
	s.mu.Unlock()

	s.notify(snap, seq)
}

// AddTable creates an empty table.
func (s *Store) AddTable(id string) error {
	if err := ValidateTableID(id); err != nil {
		return err
	}
	return s.write(func(m Map) error {
		if _, exists := m[id]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateTable, id)
		}
		m[id] = nil
		return nil
	})
}

// DuplicateTable copies every entry of src into a new table dst.
func (s *Store) DuplicateTable(src, dst string) error {
	if err := ValidateTableID(dst); err != nil {
		return err
	}
	return s.write(func(m Map) error {
		entries, ok := m[src]
		if !ok {
			return fmt.Errorf("%w: %q", ErrTableNotFound, src)
		}
		if _, exists := m[dst]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateTable, dst)
		}
		copied := make([]*Entry, len(entries))
		for i, e := range entries {
			copied[i] = e.withNewID()
		}
		m[dst] = copied
		return nil
	})
}

// RemoveTable deletes a table and its entries.
func (s *Store) RemoveTable(id string) error {
	return s.write(func(m Map) error {
		if _, ok := m[id]; !ok {
			return fmt.Errorf("%w: %q", ErrTableNotFound, id)
		}
		delete(m, id)
		return nil
	})
}

// AddEntry appends a validated entry to a table and returns its index.
func (s *Store) AddEntry(tableID string, e Entry) (int, error) {
	if err := e.Validate(s.days); err != nil {
		return 0, err
	}
	var index int
	err := s.write(func(m Map) error {
		entries, ok := m[tableID]
		if !ok {
			return fmt.Errorf("%w: %q", ErrTableNotFound, tableID)
		}
		index = len(entries)
		added := e.clone()
		if added.ID == "" {
			added.ID = uuid.NewString()
		}
		m[tableID] = append(slices.Clip(entries), added)
		return nil
	})
	return index, err
}

// SetTable replaces every entry of a table, creating the table if needed.
// An existing table keeps its display position. Entries are validated and
// receive fresh storage ids.
func (s *Store) SetTable(id string, entries []Entry) error {
	if err := ValidateTableID(id); err != nil {
		return err
	}
	list := make([]*Entry, len(entries))
	for i := range entries {
		if err := entries[i].Validate(s.days); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		list[i] = entries[i].clone()
		list[i].ID = uuid.NewString()
	}
	return s.write(func(m Map) error {
		m[id] = list
		return nil
	})
}

// RemoveEntry deletes the entry at index. Later entries shift down by one.
func (s *Store) RemoveEntry(tableID string, index int) error {
	return s.write(func(m Map) error {
		entries, ok := m[tableID]
		if !ok {
			return fmt.Errorf("%w: %q", ErrTableNotFound, tableID)
		}
		if index < 0 || index >= len(entries) {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, FormatID(tableID, index))
		}
		m[tableID] = slices.Delete(slices.Clone(entries), index, index+1)
		return nil
	})
}

// write applies fn to a shallow copy of the map and swaps it in on success.
func (s *Store) write(fn func(Map) error) error {
	s.mu.Lock()
	next := s.tables.shallowCopy()
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.swap(next, nil)
	snap, seq := s.publish()
	s.mu.Unlock()

	s.notify(snap, seq)
	return nil
}

// swap installs next and reconciles table order. Caller holds mu.
func (s *Store) swap(next Map, preferred []string) {
	order := make([]string, 0, len(next))
	seen := make(map[string]bool, len(next))
	for _, src := range [][]string{preferred, s.order} {
		for _, id := range src {
			if _, ok := next[id]; ok && !seen[id] {
				order = append(order, id)
				seen[id] = true
			}
		}
	}
	var added []string
	for id := range next {
		if !seen[id] {
			added = append(added, id)
		}
	}
	sort.Strings(added)
	s.order = append(order, added...)
	s.tables = next
}

// publish stamps the current map with a new sequence number. Caller holds mu.
func (s *Store) publish() (Map, uint64) {
	s.seq++
	return s.tables, s.seq
}

func (s *Store) notify(snap Map, seq uint64) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if seq <= s.delivered {
		return
	}
	s.delivered = seq

	s.subsMu.Lock()
	fns := make([]func(Map), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
