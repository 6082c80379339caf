package tui

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timegrid/internal/dnd"
	"github.com/javiermolinar/timegrid/internal/schedule"
	"github.com/javiermolinar/timegrid/internal/tui/commands"
	"github.com/javiermolinar/timegrid/internal/tui/view"
)

// handleMouseMsg drives the drag coordinator from terminal mouse events.
// Positions are terminal cells.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal {
		return m, nil
	}
	at := dnd.Point{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			if m.pressed == nil {
				m.scrollBy(1)
			}
		case tea.MouseButtonWheelUp:
			if m.pressed == nil {
				m.scrollBy(-1)
			}
		case tea.MouseButtonLeft:
			return m.pointerDown(msg.X, msg.Y, at)
		}
	case tea.MouseActionMotion:
		if m.pressed != nil {
			container, dragging := m.pressed.Container, m.pressed.Dragging
			m.coord.PointerMove(at, &container, &dragging)
		}
	case tea.MouseActionRelease:
		if m.pressed != nil {
			return m.pointerUp(at)
		}
	}
	return m, nil
}

func (m Model) pointerDown(x, y int, at dnd.Point) (tea.Model, tea.Cmd) {
	if m.pressed != nil || !m.inTablesArea(y) {
		return m, nil
	}
	frames := m.frames()
	originY := m.originY()
	if f, ok := m.layout.frameAt(frames, originY, x, y); ok {
		m.focus = f.Index
	}
	h, ok := m.layout.hitTest(frames, m.store.Snapshot(), originY, x, y)
	if !ok {
		return m, nil
	}
	if m.coord.PointerDown(h.ID, at) {
		m.pressed = &h
	}
	return m, nil
}

func (m Model) pointerUp(at dnd.Point) (tea.Model, tea.Cmd) {
	res, dragged := m.coord.PointerUp(at)
	m.pressed = nil
	if !dragged {
		return m, nil
	}
	if !res.Committed {
		cmd := m.setStatus(dropFailure(res), true)
		return m, cmd
	}
	mv := res.Move
	status := m.setStatus(fmt.Sprintf("Moved %s to %s %s", mv.After.Title, dayLabel(mv.After.Day), m.slotSpan(mv.After)), false)
	return m, tea.Batch(status, m.persistTable(mv.TableID))
}

// cancelGesture aborts a pending press or an active drag.
func (m Model) cancelGesture() (tea.Model, tea.Cmd) {
	if m.pressed == nil {
		return m, nil
	}
	m.coord.PointerCancel()
	m.pressed = nil
	cmd := m.setStatus("Drag cancelled", false)
	return m, cmd
}

func dropFailure(res dnd.Result) string {
	switch res.Reason {
	case dnd.ReasonTableNotFound:
		return "Table no longer exists"
	case dnd.ReasonEntryNotFound, dnd.ReasonBadIndex:
		return "Entry no longer exists"
	}
	if res.Err != nil {
		return "Move rejected: " + res.Err.Error()
	}
	return "Move rejected"
}

func dayLabel(day string) string {
	if day == "" {
		return "(no day)"
	}
	return day
}

// slotSpan formats the time labels an entry covers.
func (m Model) slotSpan(e *schedule.Entry) string {
	first, last := e.Span()
	if first == last {
		return m.config.SlotLabel(first)
	}
	return m.config.SlotLabel(first) + "-" + m.config.SlotLabel(last+1)
}

// persistTable saves the current contents of one table.
func (m Model) persistTable(tableID string) tea.Cmd {
	position := slices.Index(m.store.Tables(), tableID)
	entries := m.store.Snapshot()[tableID]
	return commands.SaveTable(m.repo, tableID, position, entries)
}

// frames places every table for the current terminal width.
func (m Model) frames() []tableFrame {
	return m.layout.place(m.store.Tables(), m.width)
}

// originY is the screen row of the unscrolled tables area top.
func (m Model) originY() int {
	return titleHeight - m.scroll
}

// tablesHeight is the number of rows between the title and the footer.
func (m Model) tablesHeight() int {
	return max(0, m.height-titleHeight-view.FooterHeight)
}

func (m Model) inTablesArea(y int) bool {
	return y >= titleHeight && y < titleHeight+m.tablesHeight()
}

func (m Model) slotLabels() []string {
	labels := make([]string, m.layout.slots)
	for i := range labels {
		labels[i] = m.config.SlotLabel(i)
	}
	return labels
}
