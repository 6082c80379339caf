package tui

import (
	"slices"

	"github.com/javiermolinar/timegrid/internal/config"
	"github.com/javiermolinar/timegrid/internal/dnd"
	"github.com/javiermolinar/timegrid/internal/schedule"
)

// frameGap is the blank space between two table frames on one band.
const frameGap = 1

// gridLayout holds the size of one table frame, in terminal cells.
type gridLayout struct {
	days    []string
	slots   int
	cellW   int
	cellH   int
	headerW int
	headerH int
}

func newGridLayout(cfg *config.Config) gridLayout {
	g := cfg.Grid
	return gridLayout{
		days:    slices.Clone(g.Days),
		slots:   g.Slots,
		cellW:   g.CellWidth,
		cellH:   g.CellHeight,
		headerW: g.HeaderWidth,
		headerH: g.HeaderHeight,
	}
}

// innerWidth is the width of the header column plus every day column.
func (l gridLayout) innerWidth() int {
	return l.headerW + len(l.days)*l.cellW
}

// innerHeight is the height of the header band plus every slot row.
func (l gridLayout) innerHeight() int {
	return l.headerH + l.slots*l.cellH
}

// frameWidth includes the left and right border.
func (l gridLayout) frameWidth() int {
	return l.innerWidth() + 2
}

// frameHeight includes both borders and the title line.
func (l gridLayout) frameHeight() int {
	return l.innerHeight() + 3
}

// tableFrame is the placement of one table, relative to the top-left corner
// of the unscrolled tables area.
type tableFrame struct {
	ID    string
	Index int
	X     int
	Y     int
}

// place lays frames out left to right, wrapping to a new band when the next
// frame would cross width. A frame wider than width gets a band of its own.
func (l gridLayout) place(order []string, width int) []tableFrame {
	frames := make([]tableFrame, 0, len(order))
	fw, fh := l.frameWidth(), l.frameHeight()
	x, y := 0, 0
	for i, id := range order {
		if x > 0 && x+fw > width {
			x = 0
			y += fh
		}
		frames = append(frames, tableFrame{ID: id, Index: i, X: x, Y: y})
		x += fw + frameGap
	}
	return frames
}

// contentHeight is the number of lines all bands take.
func (l gridLayout) contentHeight(frames []tableFrame) int {
	if len(frames) == 0 {
		return 0
	}
	return frames[len(frames)-1].Y + l.frameHeight()
}

// container returns the screen rect of a table's grid, header bands
// included. originY is the screen row of the tables area top, minus scroll.
func (l gridLayout) container(f tableFrame, originY int) dnd.Rect {
	left := float64(f.X + 1)
	top := float64(originY + f.Y + 2)
	return dnd.Rect{
		Left:   left,
		Top:    top,
		Right:  left + float64(l.innerWidth()),
		Bottom: top + float64(l.innerHeight()),
	}
}

// dayIndex returns the column of a day label, or -1.
func (l gridLayout) dayIndex(day string) int {
	return slices.Index(l.days, day)
}

// entryRect returns the bounding rect of an entry inside container.
func (l gridLayout) entryRect(container dnd.Rect, e *schedule.Entry) (dnd.Rect, bool) {
	day := l.dayIndex(e.Day)
	if day < 0 || len(e.Range) == 0 {
		return dnd.Rect{}, false
	}
	first, last := e.Span()
	left := container.Left + float64(l.headerW+day*l.cellW)
	top := container.Top + float64(l.headerH+first*l.cellH)
	return dnd.Rect{
		Left:   left,
		Top:    top,
		Right:  left + float64(l.cellW),
		Bottom: top + float64((last-first+1)*l.cellH),
	}, true
}

// cellAt maps a screen position to a grid cell of container.
func (l gridLayout) cellAt(container dnd.Rect, x, y int) (day, slot int, ok bool) {
	col := x - int(container.Left) - l.headerW
	row := y - int(container.Top) - l.headerH
	if col < 0 || row < 0 {
		return 0, 0, false
	}
	day, slot = col/l.cellW, row/l.cellH
	if day >= len(l.days) || slot >= l.slots {
		return 0, 0, false
	}
	return day, slot, true
}

// entryAt returns the index of the entry drawn at a cell. Later entries are
// drawn over earlier ones, so the last match wins.
func (l gridLayout) entryAt(entries []*schedule.Entry, day, slot int) (int, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if l.dayIndex(e.Day) == day && e.Covers(slot) {
			return i, true
		}
	}
	return 0, false
}

// hit is a press that landed on an entry.
type hit struct {
	ID        string
	TableID   string
	Container dnd.Rect
	Dragging  dnd.Rect
}

// frameAt returns the frame containing a screen position.
func (l gridLayout) frameAt(frames []tableFrame, originY, x, y int) (tableFrame, bool) {
	fw, fh := l.frameWidth(), l.frameHeight()
	for _, f := range frames {
		top := originY + f.Y
		if x >= f.X && x < f.X+fw && y >= top && y < top+fh {
			return f, true
		}
	}
	return tableFrame{}, false
}

// hitTest resolves a press to the entry under it.
func (l gridLayout) hitTest(frames []tableFrame, snapshot schedule.Map, originY, x, y int) (hit, bool) {
	f, ok := l.frameAt(frames, originY, x, y)
	if !ok {
		return hit{}, false
	}
	container := l.container(f, originY)
	day, slot, ok := l.cellAt(container, x, y)
	if !ok {
		return hit{}, false
	}
	index, ok := l.entryAt(snapshot[f.ID], day, slot)
	if !ok {
		return hit{}, false
	}
	dragging, ok := l.entryRect(container, snapshot[f.ID][index])
	if !ok {
		return hit{}, false
	}
	return hit{
		ID:        schedule.FormatID(f.ID, index),
		TableID:   f.ID,
		Container: container,
		Dragging:  dragging,
	}, true
}
