package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timegrid/internal/tui/commands"
	"github.com/javiermolinar/timegrid/internal/tui/input"
	"github.com/javiermolinar/timegrid/internal/tui/view"
)

// keyMap lists the normal-mode bindings.
type keyMap struct {
	Quit      key.Binding
	Cancel    key.Binding
	NextTable key.Binding
	PrevTable key.Binding
	NewTable  key.Binding
	Duplicate key.Binding
	Delete    key.Binding
	AddEntry  key.Binding
	Copy      key.Binding
	Prompt    key.Binding
	Down      key.Binding
	Up        key.Binding
	Help      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		NextTable: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next table")),
		PrevTable: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev table")),
		NewTable:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new table")),
		Duplicate: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "duplicate")),
		Delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		AddEntry:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add entry")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Prompt:    key.NewBinding(key.WithKeys("/", ":"), key.WithHelp("/", "command")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "scroll")),
		Up:        key.NewBinding(key.WithKeys("k", "up")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTable, k.NewTable, k.AddEntry, k.Copy, k.Prompt, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTable, k.PrevTable, k.Down, k.Cancel},
		{k.NewTable, k.Duplicate, k.Delete, k.AddEntry},
		{k.Copy, k.Prompt, k.Help, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.log.Debug().Str("key", msg.String()).Int("mode", int(m.mode)).Msg("key press")

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		return m.cancelGesture()
	}
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	// Everything else waits until the pointer is released.
	if m.pressed != nil {
		return m, nil
	}

	tables := m.store.Tables()
	focused, hasFocus := m.focusedTable()

	switch {
	case key.Matches(msg, m.keys.NextTable):
		if len(tables) > 0 {
			m.focus = (m.focus + 1) % len(tables)
		}
	case key.Matches(msg, m.keys.PrevTable):
		if len(tables) > 0 {
			m.focus = (m.focus - 1 + len(tables)) % len(tables)
		}
	case key.Matches(msg, m.keys.NewTable):
		return m.openPrompt("/new ")
	case key.Matches(msg, m.keys.Duplicate):
		if hasFocus {
			return m.openPrompt("/dup " + focused + "-copy")
		}
	case key.Matches(msg, m.keys.Delete):
		if hasFocus {
			return m.openPrompt("/delete " + focused)
		}
	case key.Matches(msg, m.keys.AddEntry):
		if hasFocus {
			return m.openPrompt("/add ")
		}
	case key.Matches(msg, m.keys.Copy):
		if hasFocus {
			return m, commands.CopyText(m.tableText(focused), focused)
		}
	case key.Matches(msg, m.keys.Prompt):
		return m.openPrompt("/")
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(1)
	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-1)
	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
	}
	return m, nil
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Cancel), msg.String() == "q", msg.String() == "enter":
		m.mode = ModeNormal
	}
	return m, nil
}

// handlePromptKeys handles keys while the command prompt has focus.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closePrompt(), nil
	case "enter":
		line := m.prompt.Value()
		m = m.closePrompt()
		return m.runPrompt(line)
	case "tab":
		if completed, ok := input.PromptAutocomplete(m.prompt.Value(), promptCommands); ok {
			m.prompt.SetValue(completed)
			m.prompt.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) openPrompt(value string) (tea.Model, tea.Cmd) {
	m.mode = ModePrompt
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	return m, m.prompt.Focus()
}

func (m Model) closePrompt() Model {
	m.mode = ModeNormal
	m.prompt.Blur()
	m.prompt.Reset()
	return m
}

// focusedTable returns the id of the focused table.
func (m Model) focusedTable() (string, bool) {
	tables := m.store.Tables()
	if len(tables) == 0 {
		return "", false
	}
	return tables[min(max(m.focus, 0), len(tables)-1)], true
}

// tableText renders a table as plain text for the clipboard.
func (m Model) tableText(tableID string) string {
	return tableID + "\n" + view.TimetableText(m.config.Grid.Days, m.slotLabels(), m.store.Snapshot()[tableID])
}

func (m *Model) scrollBy(delta int) {
	maxScroll := max(0, m.layout.contentHeight(m.frames())-m.tablesHeight())
	m.scroll = min(max(m.scroll+delta, 0), maxScroll)
}
