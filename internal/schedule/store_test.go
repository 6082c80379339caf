package schedule

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, p Policy) *Store {
	t.Helper()
	s := NewStore(WithPolicy(p))
	s.Replace(Map{
		"t1": {
			{Day: "Mon", Range: []int{3, 4}, Title: "Algebra"},
			{Day: "Wed", Range: []int{0, 1, 2}, Title: "Physics"},
			{Day: "Fri", Range: []int{6}, Title: "Lab"},
		},
		"t2": {
			{Day: "Tue", Range: []int{2}, Title: "History"},
		},
	}, []string{"t1", "t2"})
	return s
}

func TestApplyMove_ShiftsDayAndSlots(t *testing.T) {
	s := newTestStore(t, DefaultPolicy())

	mv, err := s.ApplyMove("t1", 0, 2, 1)
	require.NoError(t, err)

	got, ok := s.Snapshot().Lookup("t1", 0)
	require.True(t, ok)
	assert.Equal(t, "Wed", got.Day)
	assert.Equal(t, []int{4, 5}, got.Range)
	assert.Equal(t, "Algebra", got.Title)
	assert.Same(t, got, mv.After)
	assert.Equal(t, "Mon", mv.Before.Day)
	assert.Equal(t, []int{3, 4}, mv.Before.Range, "previous entry must not be modified")
}

func TestApplyMove_PreservesIdentityOfUnaffectedEntries(t *testing.T) {
	s := newTestStore(t, DefaultPolicy())
	before := s.Snapshot()

	_, err := s.ApplyMove("t1", 1, 1, 0)
	require.NoError(t, err)
	after := s.Snapshot()

	assert.Same(t, before["t1"][0], after["t1"][0])
	assert.Same(t, before["t1"][2], after["t1"][2])
	assert.NotSame(t, before["t1"][1], after["t1"][1])
	assert.Same(t, &before["t2"][0], &after["t2"][0], "other tables keep their slice")

	assert.Equal(t, "Wed", before["t1"][1].Day, "old snapshot is untouched")
	assert.Equal(t, "Thu", after["t1"][1].Day)
}

func TestApplyMove_ZeroOffsetKeepsValues(t *testing.T) {
	s := newTestStore(t, DefaultPolicy())
	before, _ := s.Snapshot().Lookup("t1", 0)

	_, err := s.ApplyMove("t1", 0, 0, 0)
	require.NoError(t, err)

	after, _ := s.Snapshot().Lookup("t1", 0)
	assert.Equal(t, *before, *after)
}

func TestApplyMove_MissingTableOrEntry(t *testing.T) {
	s := newTestStore(t, DefaultPolicy())
	before := s.Snapshot()

	_, err := s.ApplyMove("nope", 0, 1, 1)
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = s.ApplyMove("t1", 9, 1, 1)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = s.ApplyMove("t1", -1, 1, 1)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	assert.Equal(t, before, s.Snapshot())
}

func TestApplyMove_DayPolicies(t *testing.T) {
	tests := []struct {
		name    string
		policy  DayPolicy
		offset  int
		wantDay string
		wantErr error
	}{
		{name: "reject past sunday", policy: DayReject, offset: 3, wantErr: ErrDayOutOfRange},
		{name: "reject before monday", policy: DayReject, offset: -5, wantErr: ErrDayOutOfRange},
		{name: "clamp past sunday", policy: DayClamp, offset: 3, wantDay: "Sun"},
		{name: "clamp before monday", policy: DayClamp, offset: -5, wantDay: "Mon"},
		{name: "wrap past sunday", policy: DayWrap, offset: 3, wantDay: "Mon"},
		{name: "wrap before monday", policy: DayWrap, offset: -5, wantDay: "Sun"},
		{name: "unguarded past sunday leaves day empty", policy: DayUnguarded, offset: 3, wantDay: ""},
		{name: "in range is the same for every policy", policy: DayReject, offset: 2, wantDay: "Sun"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, Policy{Days: tt.policy})
			// "Fri" is index 4 of seven labels.
			_, err := s.ApplyMove("t1", 2, tt.offset, 0)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				got, _ := s.Snapshot().Lookup("t1", 2)
				assert.Equal(t, "Fri", got.Day)
				return
			}
			require.NoError(t, err)
			got, _ := s.Snapshot().Lookup("t1", 2)
			assert.Equal(t, tt.wantDay, got.Day)
		})
	}
}

func TestApplyMove_NegativeSlots(t *testing.T) {
	s := newTestStore(t, DefaultPolicy())
	_, err := s.ApplyMove("t1", 1, 0, -1)
	require.ErrorIs(t, err, ErrNegativeSlot)
	got, _ := s.Snapshot().Lookup("t1", 1)
	assert.Equal(t, []int{0, 1, 2}, got.Range)

	s = newTestStore(t, Policy{Days: DayReject, AllowNegativeSlots: true})
	_, err = s.ApplyMove("t1", 1, 0, -1)
	require.NoError(t, err)
	got, _ = s.Snapshot().Lookup("t1", 1)
	assert.Equal(t, []int{-1, 0, 1}, got.Range)
}

func TestUpdate_AppliesOnceAndNotifies(t *testing.T) {
	s := newTestStore(t, DefaultPolicy())

	var notified []Map
	cancel := s.Subscribe(func(m Map) { notified = append(notified, m) })

	calls := 0
	s.Update(func(prev Map) Map {
		calls++
		next := prev.shallowCopy()
		next["t3"] = []*Entry{{Day: "Sat", Range: []int{1}, Title: "Chess"}}
		return next
	})

	assert.Equal(t, 1, calls)
	require.Len(t, notified, 1)
	assert.Contains(t, notified[0], "t3")
	assert.Equal(t, []string{"t1", "t2", "t3"}, s.Tables())

	cancel()
	_, err := s.ApplyMove("t3", 0, 0, 1)
	require.NoError(t, err)
	assert.Len(t, notified, 1, "cancelled subscription is not called")
}

func TestSubscribe_ConcurrentWritesDeliverInOrder(t *testing.T) {
	s := newTestStore(t, DefaultPolicy())

	var sizes []int
	cancel := s.Subscribe(func(m Map) { sizes = append(sizes, len(m)) })
	defer cancel()

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.AddTable(fmt.Sprintf("w%d", i)))
		}(i)
	}
	wg.Wait()

	require.NotEmpty(t, sizes)
	for i := 1; i < len(sizes); i++ {
		assert.Greater(t, sizes[i], sizes[i-1], "snapshot %d went backwards", i)
	}
	assert.Equal(t, 2+writers, sizes[len(sizes)-1], "last delivery is the latest map")
}

func TestSetTable(t *testing.T) {
	s := newTestStore(t, DefaultPolicy())
	before := s.Snapshot()

	require.NoError(t, s.SetTable("t1", []Entry{{ID: "old", Day: "Thu", Range: []int{5}, Title: "Art"}}))
	assert.Equal(t, []string{"t1", "t2"}, s.Tables(), "replaced table keeps its position")
	got, ok := s.Snapshot().Lookup("t1", 0)
	require.True(t, ok)
	assert.Equal(t, "Art", got.Title)
	assert.NotEqual(t, "old", got.ID)
	assert.Len(t, s.Snapshot()["t1"], 1)
	assert.Len(t, before["t1"], 3, "earlier snapshot is untouched")
	assert.Same(t, before["t2"][0], s.Snapshot()["t2"][0])

	require.NoError(t, s.SetTable("t3", nil))
	assert.Equal(t, []string{"t1", "t2", "t3"}, s.Tables())

	err := s.SetTable("t2", []Entry{{Day: "Mon", Range: []int{1}}, {Day: "Nope", Range: []int{1}}})
	assert.ErrorIs(t, err, ErrUnknownDay)
	assert.Equal(t, "History", s.Snapshot()["t2"][0].Title, "invalid entries leave the table unchanged")

	assert.ErrorIs(t, s.SetTable("a:b", nil), ErrInvalidTableID)
}

func TestTableCRUD(t *testing.T) {
	s := newTestStore(t, DefaultPolicy())

	require.NoError(t, s.AddTable("t3"))
	assert.ErrorIs(t, s.AddTable("t3"), ErrDuplicateTable)
	assert.ErrorIs(t, s.AddTable("a:b"), ErrInvalidTableID)
	assert.ErrorIs(t, s.AddTable(""), ErrInvalidTableID)

	require.NoError(t, s.DuplicateTable("t1", "t1-copy"))
	snap := s.Snapshot()
	require.Len(t, snap["t1-copy"], 3)
	assert.NotSame(t, snap["t1"][0], snap["t1-copy"][0])
	assert.Equal(t, snap["t1"][0].Range, snap["t1-copy"][0].Range)
	assert.Equal(t, snap["t1"][0].Title, snap["t1-copy"][0].Title)
	assert.NotEqual(t, snap["t1"][0].ID, snap["t1-copy"][0].ID, "copies get fresh storage ids")
	assert.Equal(t, []string{"t1", "t2", "t3", "t1-copy"}, s.Tables())

	idx, err := s.AddEntry("t3", Entry{Day: "Thu", Range: []int{5, 6}, Title: "Art"})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	added, _ := s.Snapshot().Lookup("t3", 0)
	assert.NotEmpty(t, added.ID)

	_, err = s.AddEntry("t3", Entry{Day: "Someday", Range: []int{1}})
	assert.ErrorIs(t, err, ErrUnknownDay)
	_, err = s.AddEntry("t3", Entry{Day: "Mon"})
	assert.ErrorIs(t, err, ErrEmptyRange)
	_, err = s.AddEntry("missing", Entry{Day: "Mon", Range: []int{1}})
	assert.ErrorIs(t, err, ErrTableNotFound)

	require.NoError(t, s.RemoveEntry("t1", 0))
	got, _ := s.Snapshot().Lookup("t1", 0)
	assert.Equal(t, "Physics", got.Title)
	assert.Len(t, snap["t1"], 3, "earlier snapshot keeps its entries")

	require.NoError(t, s.RemoveTable("t2"))
	assert.ErrorIs(t, s.RemoveTable("t2"), ErrTableNotFound)
	assert.Equal(t, []string{"t1", "t3", "t1-copy"}, s.Tables())
}

func TestParseDayPolicy(t *testing.T) {
	for in, want := range map[string]DayPolicy{
		"":          DayReject,
		"reject":    DayReject,
		"Clamp":     DayClamp,
		" wrap ":    DayWrap,
		"unguarded": DayUnguarded,
	} {
		got, err := ParseDayPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDayPolicy("bounce")
	assert.Error(t, err)
}
