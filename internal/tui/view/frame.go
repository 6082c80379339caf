package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// CellKind says how a grid cell is painted.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellEntry
	CellEntryAlt
	CellSource // original position of the block being dragged
	CellGhost  // drag preview
)

// Cell is one day x slot cell of a table grid.
type Cell struct {
	Kind  CellKind
	Label string // drawn on the first line only
}

// FrameStyles holds the styles a table frame is drawn with.
type FrameStyles struct {
	Frame      lipgloss.Style
	Title      lipgloss.Style
	DayHeader  lipgloss.Style
	TimeColumn lipgloss.Style
	Empty      lipgloss.Style
	Entry      lipgloss.Style
	EntryAlt   lipgloss.Style
	Source     lipgloss.Style
	Ghost      lipgloss.Style
}

// FrameState holds everything needed to draw one table.
type FrameState struct {
	Title      string
	Days       []string
	SlotLabels []string
	Cells      [][]Cell // [slot][day]
	CellW      int
	CellH      int
	HeaderW    int
	HeaderH    int
	Styles     FrameStyles
}

// InnerWidth is the frame width without borders.
func (s FrameState) InnerWidth() int {
	return s.HeaderW + len(s.Days)*s.CellW
}

// RenderFrame draws a bordered table: a title line, the day header band,
// then one row per slot with the time label in the header column.
// Every line is exactly InnerWidth cells wide, so screen positions can be
// computed from the geometry alone.
func RenderFrame(state FrameState) string {
	w := state.InnerWidth()
	st := state.Styles
	lines := make([]string, 0, 1+state.HeaderH+len(state.SlotLabels)*state.CellH)

	lines = append(lines, st.Title.Render(FitWidth(" "+state.Title, w)))

	for k := 0; k < state.HeaderH; k++ {
		if k > 0 {
			lines = append(lines, st.TimeColumn.Render(strings.Repeat(" ", w)))
			continue
		}
		var b strings.Builder
		b.WriteString(st.TimeColumn.Render(strings.Repeat(" ", state.HeaderW)))
		for _, day := range state.Days {
			b.WriteString(st.DayHeader.Width(state.CellW).Render(ansi.Truncate(day, state.CellW, "…")))
		}
		lines = append(lines, b.String())
	}

	for slot, label := range state.SlotLabels {
		for k := 0; k < state.CellH; k++ {
			var b strings.Builder
			timeLabel := ""
			if k == 0 {
				timeLabel = label
			}
			b.WriteString(st.TimeColumn.Render(FitWidth(timeLabel, state.HeaderW)))
			for day := range state.Days {
				var cell Cell
				if slot < len(state.Cells) && day < len(state.Cells[slot]) {
					cell = state.Cells[slot][day]
				}
				text := ""
				if k == 0 {
					text = cell.Label
				}
				b.WriteString(cellStyle(st, cell.Kind).Render(FitWidth(text, state.CellW-1)))
				b.WriteString(st.Empty.Render(" "))
			}
			lines = append(lines, b.String())
		}
	}

	return st.Frame.Render(strings.Join(lines, "\n"))
}

func cellStyle(st FrameStyles, kind CellKind) lipgloss.Style {
	switch kind {
	case CellEntry:
		return st.Entry
	case CellEntryAlt:
		return st.EntryAlt
	case CellSource:
		return st.Source
	case CellGhost:
		return st.Ghost
	default:
		return st.Empty
	}
}
