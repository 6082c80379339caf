package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timegrid/internal/dnd"
	"github.com/javiermolinar/timegrid/internal/schedule"
	"github.com/javiermolinar/timegrid/internal/tui/input"
	"github.com/javiermolinar/timegrid/internal/tui/view"
)

// View renders the TUI using a boxed, parent-controlled layout.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	showModal := m.mode == ModeHelp
	modal := ""
	if showModal {
		modal = m.renderHelp()
	}
	return view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		ModalContent:     modal,
		ShowModal:        showModal,
		ModalBg:          m.styles.ModalBgColor,
		EmptyPlaceholder: "Loading...",
	}
}

func (m Model) renderAppContent() string {
	tablesH := m.tablesHeight()
	if m.width <= 0 || tablesH <= 0 {
		return "Terminal too small"
	}

	title := m.styles.TitleStyle.Render(view.FitWidth(" timegrid", m.width))
	tables := view.PadLinesWithBackground(m.renderTables(tablesH), m.width, tablesH, m.styles.colorBg)
	footer := view.RenderFooter(m.footerViewState())

	content := lipgloss.JoinVertical(lipgloss.Left, title, tables, footer)
	app := m.styles.AppStyle.Render(content)
	return view.PadLinesWithBackground(app, m.width, m.height, m.styles.colorBg)
}

// renderTables draws every band of frames and returns the visible rows.
func (m Model) renderTables(height int) string {
	frames := m.frames()
	if len(frames) == 0 {
		return m.styles.EmptyCellStyle.Render(" No tables. Press n to create one.")
	}

	snapshot := m.store.Snapshot()
	live := m.live.get()
	gap := strings.TrimSuffix(strings.Repeat(strings.Repeat(" ", frameGap)+"\n", m.layout.frameHeight()), "\n")

	var bands []string
	var row []string
	bandY := frames[0].Y
	for _, f := range frames {
		if f.Y != bandY {
			bands = append(bands, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
			bandY = f.Y
		}
		if len(row) > 0 {
			row = append(row, gap)
		}
		row = append(row, view.RenderFrame(m.frameState(f, snapshot[f.ID], live)))
	}
	bands = append(bands, lipgloss.JoinHorizontal(lipgloss.Top, row...))

	lines := strings.Split(lipgloss.JoinVertical(lipgloss.Left, bands...), "\n")
	start := min(m.scroll, len(lines))
	end := min(start+height, len(lines))
	return strings.Join(lines[start:end], "\n")
}

// frameState paints the cells of one table. Entries alternate colors by
// index. While a drag is active in this table, the dragged entry is drawn as
// its source cells plus a ghost at the snapped preview position.
func (m Model) frameState(f tableFrame, entries []*schedule.Entry, live dnd.DragState) view.FrameState {
	l := m.layout
	cells := make([][]view.Cell, l.slots)
	for i := range cells {
		cells[i] = make([]view.Cell, len(l.days))
	}
	paint := func(e *schedule.Entry, day, slotShift int, kind view.CellKind, label string) {
		if day < 0 || day >= len(l.days) {
			return
		}
		first, _ := e.Span()
		for _, s := range e.Range {
			slot := s + slotShift
			if slot < 0 || slot >= l.slots {
				continue
			}
			cell := view.Cell{Kind: kind}
			if s == first {
				cell.Label = label
			}
			cells[slot][day] = cell
		}
	}

	dragging := live.Active && live.ActiveTableID == f.ID
	var ghost *schedule.Entry
	for i, e := range entries {
		kind := view.CellEntry
		if i%2 == 1 {
			kind = view.CellEntryAlt
		}
		if dragging && live.ID == schedule.FormatID(f.ID, i) {
			kind = view.CellSource
			ghost = e
		}
		paint(e, l.dayIndex(e.Day), 0, kind, e.Label())
	}
	if ghost != nil {
		dayShift := int(math.Round(live.Transform.X / float64(l.cellW)))
		slotShift := int(math.Round(live.Transform.Y / float64(l.cellH)))
		paint(ghost, l.dayIndex(ghost.Day)+dayShift, slotShift, view.CellGhost, ghost.Title)
	}

	frameStyle := m.styles.FrameStyle
	switch {
	case dragging:
		frameStyle = m.styles.FrameActiveStyle
	case f.Index == m.focus:
		frameStyle = m.styles.FrameFocusedStyle
	}

	return view.FrameState{
		Title:      fmt.Sprintf("%s (%d)", f.ID, len(entries)),
		Days:       l.days,
		SlotLabels: m.slotLabels(),
		Cells:      cells,
		CellW:      l.cellW,
		CellH:      l.cellH,
		HeaderW:    l.headerW,
		HeaderH:    l.headerH,
		Styles: view.FrameStyles{
			Frame:      frameStyle,
			Title:      m.styles.TableTitleStyle,
			DayHeader:  m.styles.DayHeaderStyle,
			TimeColumn: m.styles.TimeColumnStyle,
			Empty:      m.styles.EmptyCellStyle,
			Entry:      m.styles.EntryStyle,
			EntryAlt:   m.styles.EntryAltStyle,
			Source:     m.styles.EntrySourceStyle,
			Ghost:      m.styles.GhostStyle,
		},
	}
}

func (m Model) footerViewState() view.FooterViewState {
	state := view.FooterViewState{
		InnerW:      m.width,
		StatusText:  m.statusMsg,
		StatusStyle: m.styles.StatusStyle,
		PromptLine:  " / for commands, drag entries with the mouse",
		PromptStyle: m.styles.PromptStyle,
		HelpLine:    m.help.View(m.keys),
		Bg:          m.styles.colorBg,
	}
	if m.statusWarn {
		state.StatusStyle = m.styles.StatusWarnStyle
	}
	if m.mode == ModePrompt {
		state.PromptLine = m.prompt.View()
		state.PromptStyle = m.styles.PromptFocusedStyle
		if matches := input.PromptMatchingCommands(m.prompt.Value(), promptCommands); len(matches) > 0 {
			usages := make([]string, len(matches))
			for i, c := range matches {
				usages[i] = c.Usage()
			}
			state.StatusText = strings.Join(usages, "  ")
			state.StatusStyle = m.styles.StatusStyle
		}
	}
	return state
}

// renderHelp draws the key bindings and prompt commands.
func (m Model) renderHelp() string {
	bg := lipgloss.NewStyle().Background(m.styles.ModalBgColor)
	keyStyle := m.styles.HelpKeyStyle.Background(m.styles.ModalBgColor)
	descStyle := m.styles.HelpDescStyle.Background(m.styles.ModalBgColor)

	lines := []string{
		m.styles.TitleStyle.Background(m.styles.ModalBgColor).Render("Keys"),
		m.help.FullHelpView(m.keys.FullHelp()),
		"",
		m.styles.TitleStyle.Background(m.styles.ModalBgColor).Render("Commands"),
	}
	for _, c := range promptCommands {
		lines = append(lines, keyStyle.Render(view.FitWidth(c.Usage(), 32))+bg.Render(" ")+descStyle.Render(c.Description))
	}
	lines = append(lines, "", descStyle.Render("Drag an entry with the left button. Esc cancels a drag."))
	return m.styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
