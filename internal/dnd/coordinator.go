package dnd

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/timegrid/internal/metrics"
	"github.com/javiermolinar/timegrid/internal/schedule"
)

// Coordinator errors.
var (
	ErrGestureActive = errors.New("a drag gesture is already active")
)

// Reasons a drop left the store unchanged.
const (
	ReasonTableNotFound = "table_not_found"
	ReasonBadIndex      = "bad_index"
	ReasonEntryNotFound = "entry_not_found"
	ReasonRejected      = "rejected"
	ReasonClick         = "click"
)

// Store is the part of the schedule store the coordinator writes to.
type Store interface {
	Snapshot() schedule.Map
	ApplyMove(tableID string, index, dayOffset, timeOffset int) (schedule.Move, error)
}

// DragState is the live state exposed to renderers.
type DragState struct {
	ID            string
	ActiveTableID string
	Active        bool
	Transform     Point
}

// Result reports what a drop did.
type Result struct {
	ID         string
	Committed  bool
	DayOffset  int
	TimeOffset int
	Move       schedule.Move
	Reason     string
	Err        error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithGeometry sets the grid constants.
func WithGeometry(g Geometry) Option {
	return func(c *Coordinator) { c.geometry = g }
}

// WithActivationDistance sets how far a press must travel to become a drag.
func WithActivationDistance(d float64) Option {
	return func(c *Coordinator) { c.sensor.Distance = d }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = log }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Coordinator) {
		if r != nil {
			c.rec = r
		}
	}
}

// Coordinator owns the lifecycle of one drag gesture at a time and writes to
// the store only on drop.
type Coordinator struct {
	store    Store
	geometry Geometry

	mu        sync.Mutex
	sensor    Sensor
	pendingID string
	state     DragState

	listenersMu sync.Mutex
	listeners   map[int]func(DragState)
	nextID      int

	log zerolog.Logger
	rec metrics.Recorder
}

// New creates a coordinator writing to store.
func New(store Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:     store,
		geometry:  DefaultGeometry(),
		sensor:    Sensor{Distance: DefaultActivationDistance},
		listeners: make(map[int]func(DragState)),
		log:       zerolog.Nop(),
		rec:       metrics.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geometry returns the grid constants.
func (c *Coordinator) Geometry() Geometry {
	return c.geometry
}

// State returns the current drag state.
func (c *Coordinator) State() DragState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ActiveTableID returns the table being dragged within, if any.
func (c *Coordinator) ActiveTableID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ActiveTableID, c.state.Active
}

// OnStateChange registers fn to receive every drag state change.
// The returned function removes it.
func (c *Coordinator) OnStateChange(fn func(DragState)) func() {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		delete(c.listeners, id)
	}
}

// DragStart marks the table of id as active. It never touches the store.
func (c *Coordinator) DragStart(id string) error {
	c.mu.Lock()
	if c.state.Active {
		c.mu.Unlock()
		return ErrGestureActive
	}
	tableID, _ := schedule.ParseID(id)
	c.state = DragState{ID: id, ActiveTableID: tableID, Active: true}
	st := c.state
	c.mu.Unlock()

	c.log.Debug().Str("id", id).Str("table", tableID).Msg("drag start")
	c.rec.DragStarted(tableID)
	c.emit(st)
	return nil
}

// DragMove computes the preview transform for a raw delta and records it for
// rendering. It never touches the store.
func (c *Coordinator) DragMove(delta Point, container, dragging *Rect) Point {
	t := Transform(c.geometry, delta, container, dragging)

	c.mu.Lock()
	if !c.state.Active {
		c.mu.Unlock()
		return t
	}
	c.state.Transform = t
	st := c.state
	c.mu.Unlock()

	c.emit(st)
	return t
}

// DragEnd applies the raw total delta to the entry named by id, once, and
// clears the active table whatever the outcome.
func (c *Coordinator) DragEnd(id string, totalDelta Point) Result {
	res := c.drop(id, totalDelta)
	c.clear()

	ev := c.log.Debug()
	if res.Committed {
		c.rec.DragCommitted(res.Move.TableID)
	} else {
		c.rec.DragSkipped(res.Reason)
		ev = c.log.Warn().Str("reason", res.Reason).AnErr("error", res.Err)
	}
	ev.Str("id", id).
		Float64("dx", totalDelta.X).
		Float64("dy", totalDelta.Y).
		Int("day_offset", res.DayOffset).
		Int("time_offset", res.TimeOffset).
		Bool("committed", res.Committed).
		Msg("drag end")
	return res
}

func (c *Coordinator) drop(id string, totalDelta Point) Result {
	res := Result{ID: id}
	tableID, rawIndex := schedule.ParseID(id)

	if _, ok := c.store.Snapshot()[tableID]; !ok {
		res.Reason = ReasonTableNotFound
		return res
	}
	index, ok := schedule.ParseIndex(rawIndex)
	if !ok {
		res.Reason = ReasonBadIndex
		return res
	}

	res.DayOffset, res.TimeOffset = Quantize(c.geometry, totalDelta)
	mv, err := c.store.ApplyMove(tableID, index, res.DayOffset, res.TimeOffset)
	if err != nil {
		res.Err = err
		res.Reason = ReasonRejected
		if errors.Is(err, schedule.ErrEntryNotFound) {
			res.Reason = ReasonEntryNotFound
		}
		return res
	}
	res.Committed = true
	res.Move = mv
	return res
}

// DragCancel aborts the gesture without touching the store.
func (c *Coordinator) DragCancel() {
	c.mu.Lock()
	wasActive := c.state.Active
	c.mu.Unlock()

	c.clear()
	if wasActive {
		c.log.Debug().Msg("drag cancel")
		c.rec.DragCancelled()
	}
}

// PointerDown arms a gesture on the entry named by id. It returns false if
// another gesture is pending or active.
func (c *Coordinator) PointerDown(id string, at Point) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sensor.Armed() || c.state.Active {
		c.log.Debug().Str("id", id).Msg("pointer down ignored: gesture in progress")
		return false
	}
	c.sensor.Press(at)
	c.pendingID = id
	return true
}

// PointerMove feeds a pointer position. Once the activation distance is
// passed it starts the drag and returns the preview transform.
func (c *Coordinator) PointerMove(at Point, container, dragging *Rect) (Point, bool) {
	c.mu.Lock()
	if !c.sensor.Armed() {
		c.mu.Unlock()
		return Point{}, false
	}
	delta, active := c.sensor.Move(at)
	started := c.state.Active
	id := c.pendingID
	c.mu.Unlock()

	if !active {
		return Point{}, false
	}
	if !started {
		if err := c.DragStart(id); err != nil {
			return Point{}, false
		}
	}
	return c.DragMove(delta, container, dragging), true
}

// PointerUp ends the gesture. A press that never became a drag is reported
// as a click and nothing is applied.
func (c *Coordinator) PointerUp(at Point) (Result, bool) {
	c.mu.Lock()
	if !c.sensor.Armed() {
		c.mu.Unlock()
		return Result{}, false
	}
	delta, wasDrag := c.sensor.Release(at)
	id := c.pendingID
	c.pendingID = ""
	c.mu.Unlock()

	if !wasDrag {
		return Result{ID: id, Reason: ReasonClick}, false
	}
	return c.DragEnd(id, delta), true
}

// PointerCancel drops any pending press and aborts an active drag.
func (c *Coordinator) PointerCancel() {
	c.mu.Lock()
	c.sensor.Reset()
	c.pendingID = ""
	c.mu.Unlock()
	c.DragCancel()
}

func (c *Coordinator) clear() {
	c.mu.Lock()
	c.state = DragState{}
	c.mu.Unlock()
	c.emit(DragState{})
}

func (c *Coordinator) emit(st DragState) {
	c.listenersMu.Lock()
	fns := make([]func(DragState), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenersMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
