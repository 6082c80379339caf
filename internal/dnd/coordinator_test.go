package dnd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/timegrid/internal/schedule"
)

func newTestCoordinator(t *testing.T, p schedule.Policy) (*Coordinator, *schedule.Store) {
	t.Helper()
	store := schedule.NewStore(schedule.WithPolicy(p))
	store.Replace(schedule.Map{
		"t1": {
			{Day: "Mon", Range: []int{3, 4}, Title: "Algebra"},
			{Day: "Tue", Range: []int{1}, Title: "Biology"},
			{Day: "Sun", Range: []int{0}, Title: "Rest"},
		},
		"t2": {
			{Day: "Thu", Range: []int{5, 6}, Title: "Music"},
		},
	}, []string{"t1", "t2"})
	return New(store), store
}

// countingStore counts writes to check a drop applies exactly once.
type countingStore struct {
	*schedule.Store
	applied int
}

func (s *countingStore) ApplyMove(tableID string, index, dayOffset, timeOffset int) (schedule.Move, error) {
	s.applied++
	return s.Store.ApplyMove(tableID, index, dayOffset, timeOffset)
}

func TestDragStart_SetsActiveTable(t *testing.T) {
	c, store := newTestCoordinator(t, schedule.DefaultPolicy())
	before := store.Snapshot()

	require.NoError(t, c.DragStart("t1:0"))
	id, active := c.ActiveTableID()
	assert.True(t, active)
	assert.Equal(t, "t1", id)
	assert.Equal(t, before, store.Snapshot(), "drag start never mutates the store")

	assert.ErrorIs(t, c.DragStart("t2:0"), ErrGestureActive)
	id, _ = c.ActiveTableID()
	assert.Equal(t, "t1", id)
}

func TestDragEnd_Scenario_MoveTwoDaysOneSlot(t *testing.T) {
	c, store := newTestCoordinator(t, schedule.DefaultPolicy())
	g := c.Geometry()

	require.NoError(t, c.DragStart("t1:0"))
	res := c.DragEnd("t1:0", Point{X: g.Cell.Width * 2, Y: g.Cell.Height})

	require.True(t, res.Committed, res.Reason)
	got, _ := store.Snapshot().Lookup("t1", 0)
	days := store.Days()
	assert.Equal(t, days[0+2], got.Day)
	assert.Equal(t, []int{4, 5}, got.Range)

	_, active := c.ActiveTableID()
	assert.False(t, active)
}

func TestDragEnd_Scenario_FractionalWidthFloors(t *testing.T) {
	c, store := newTestCoordinator(t, schedule.DefaultPolicy())
	g := c.Geometry()

	res := c.DragEnd("t1:0", Point{X: g.Cell.Width * 0.4, Y: 0})
	require.True(t, res.Committed)
	assert.Equal(t, 0, res.DayOffset)

	got, _ := store.Snapshot().Lookup("t1", 0)
	assert.Equal(t, "Mon", got.Day)

	// The preview for the same delta would round, not floor.
	container, dragging := testRects(g)
	preview := Transform(g, Point{X: g.Cell.Width * 0.6}, &container, &dragging)
	assert.Equal(t, g.Cell.Width, preview.X)
	day, _ := Quantize(g, Point{X: g.Cell.Width * 0.6})
	assert.Equal(t, 0, day)
}

func TestDragEnd_Scenario_MissingTableIsNoop(t *testing.T) {
	c, store := newTestCoordinator(t, schedule.DefaultPolicy())

	require.NoError(t, c.DragStart("t1:0"))
	require.NoError(t, store.RemoveTable("t1"))
	before := store.Snapshot()

	res := c.DragEnd("t1:0", Point{X: 200, Y: 90})
	assert.False(t, res.Committed)
	assert.Equal(t, ReasonTableNotFound, res.Reason)
	assert.Equal(t, before, store.Snapshot())

	_, active := c.ActiveTableID()
	assert.False(t, active, "active table is cleared even when the drop fails")
}

func TestDragEnd_Scenario_DayOverflow(t *testing.T) {
	g := DefaultGeometry()
	delta := Point{X: g.Cell.Width * 3}

	t.Run("unguarded leaves the day absent", func(t *testing.T) {
		c, store := newTestCoordinator(t, schedule.Policy{Days: schedule.DayUnguarded})
		res := c.DragEnd("t1:2", delta)
		require.True(t, res.Committed)

		got, _ := store.Snapshot().Lookup("t1", 2)
		assert.Equal(t, "", got.Day)
		assert.Equal(t, []int{0}, got.Range)
	})

	t.Run("reject keeps the entry", func(t *testing.T) {
		c, store := newTestCoordinator(t, schedule.DefaultPolicy())
		res := c.DragEnd("t1:2", delta)
		assert.False(t, res.Committed)
		assert.Equal(t, ReasonRejected, res.Reason)
		assert.ErrorIs(t, res.Err, schedule.ErrDayOutOfRange)

		got, _ := store.Snapshot().Lookup("t1", 2)
		assert.Equal(t, "Sun", got.Day)
	})
}

func TestDragEnd_ZeroDeltaChangesNothing(t *testing.T) {
	c, store := newTestCoordinator(t, schedule.DefaultPolicy())
	before := store.Snapshot()

	res := c.DragEnd("t1:1", Point{})
	require.True(t, res.Committed)
	assert.Equal(t, 0, res.DayOffset)
	assert.Equal(t, 0, res.TimeOffset)
	assert.Equal(t, before, store.Snapshot())
}

func TestDragEnd_OnlyTargetEntryChanges(t *testing.T) {
	c, store := newTestCoordinator(t, schedule.DefaultPolicy())
	before := store.Snapshot()

	res := c.DragEnd("t1:1", Point{X: 80, Y: 60})
	require.True(t, res.Committed)
	after := store.Snapshot()

	assert.Same(t, before["t1"][0], after["t1"][0])
	assert.Same(t, before["t1"][2], after["t1"][2])
	assert.Same(t, before["t2"][0], after["t2"][0])
	assert.NotSame(t, before["t1"][1], after["t1"][1])
	assert.Equal(t, "Wed", after["t1"][1].Day)
	assert.Equal(t, []int{3}, after["t1"][1].Range)
}

func TestDragEnd_MalformedIdentifiers(t *testing.T) {
	tests := []struct {
		id     string
		reason string
	}{
		{"t1", ReasonBadIndex},
		{"t9", ReasonTableNotFound},
		{"t1:", ReasonBadIndex},
		{"t1:abc", ReasonBadIndex},
		{"t1:9", ReasonEntryNotFound},
		{"t1:0:x", ReasonBadIndex},
		{"", ReasonTableNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			c, store := newTestCoordinator(t, schedule.DefaultPolicy())
			before := store.Snapshot()

			res := c.DragEnd(tt.id, Point{X: 80})
			assert.False(t, res.Committed)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Equal(t, before, store.Snapshot())
		})
	}
}

func TestDragEnd_AppliesExactlyOnce(t *testing.T) {
	store := schedule.NewStore()
	store.Replace(schedule.Map{"a": {{Day: "Mon", Range: []int{1}}}}, nil)
	cs := &countingStore{Store: store}
	c := New(cs)

	c.DragEnd("a:0", Point{X: 80})
	assert.Equal(t, 1, cs.applied)

	c.DragEnd("missing:0", Point{X: 80})
	assert.Equal(t, 1, cs.applied, "failed lookups never reach the store")
}

func TestDragMove_RecordsTransformOnly(t *testing.T) {
	c, store := newTestCoordinator(t, schedule.DefaultPolicy())
	g := c.Geometry()
	container, dragging := testRects(g)
	before := store.Snapshot()

	var states []DragState
	cancel := c.OnStateChange(func(s DragState) { states = append(states, s) })
	defer cancel()

	require.NoError(t, c.DragStart("t2:0"))
	got := c.DragMove(Point{X: 95, Y: 44}, &container, &dragging)

	assert.Equal(t, Point{X: 80, Y: 30}, got)
	assert.Equal(t, got, c.State().Transform)
	assert.Equal(t, before, store.Snapshot())

	require.Len(t, states, 2)
	assert.Equal(t, "t2", states[0].ActiveTableID)
	assert.Equal(t, got, states[1].Transform)
}

func TestDragCancel(t *testing.T) {
	c, store := newTestCoordinator(t, schedule.DefaultPolicy())
	before := store.Snapshot()

	require.NoError(t, c.DragStart("t1:0"))
	c.DragCancel()

	_, active := c.ActiveTableID()
	assert.False(t, active)
	assert.Equal(t, before, store.Snapshot())
	assert.NoError(t, c.DragStart("t1:0"), "a new gesture may start after a cancel")
}

func TestPointer_ClickIsNotADrag(t *testing.T) {
	c, store := newTestCoordinator(t, schedule.DefaultPolicy())
	before := store.Snapshot()

	require.True(t, c.PointerDown("t1:0", Point{X: 100, Y: 100}))
	_, active := c.PointerMove(Point{X: 103, Y: 104}, nil, nil)
	assert.False(t, active)

	res, dragged := c.PointerUp(Point{X: 103, Y: 104})
	assert.False(t, dragged)
	assert.Equal(t, ReasonClick, res.Reason)
	assert.Equal(t, before, store.Snapshot())
}

func TestPointer_FullGesture(t *testing.T) {
	c, store := newTestCoordinator(t, schedule.DefaultPolicy())
	g := c.Geometry()
	container, dragging := testRects(g)

	require.True(t, c.PointerDown("t1:0", Point{X: 300, Y: 200}))
	assert.False(t, c.PointerDown("t2:0", Point{}), "second press is ignored")

	tr, active := c.PointerMove(Point{X: 350, Y: 200}, &container, &dragging)
	require.True(t, active)
	assert.Equal(t, Point{X: 80, Y: 0}, tr, "50 rounds to one cell in the preview")

	id, ok := c.ActiveTableID()
	assert.True(t, ok)
	assert.Equal(t, "t1", id)

	res, dragged := c.PointerUp(Point{X: 350, Y: 235})
	require.True(t, dragged)
	require.True(t, res.Committed)
	assert.Equal(t, 0, res.DayOffset, "50 floors to zero days on drop")
	assert.Equal(t, 1, res.TimeOffset)

	got, _ := store.Snapshot().Lookup("t1", 0)
	assert.Equal(t, "Mon", got.Day)
	assert.Equal(t, []int{4, 5}, got.Range)

	_, ok = c.ActiveTableID()
	assert.False(t, ok)
	assert.True(t, c.PointerDown("t2:0", Point{}), "next gesture may start")
}

func TestPointerCancel(t *testing.T) {
	c, store := newTestCoordinator(t, schedule.DefaultPolicy())
	before := store.Snapshot()

	require.True(t, c.PointerDown("t1:0", Point{}))
	_, active := c.PointerMove(Point{X: 40}, nil, nil)
	require.True(t, active)

	c.PointerCancel()
	_, ok := c.ActiveTableID()
	assert.False(t, ok)

	_, dragged := c.PointerUp(Point{X: 200})
	assert.False(t, dragged, "release after cancel does nothing")
	assert.Equal(t, before, store.Snapshot())
}
