package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timegrid/internal/schedule"
	"github.com/javiermolinar/timegrid/internal/tui/commands"
	"github.com/javiermolinar/timegrid/internal/tui/input"
	"github.com/javiermolinar/timegrid/internal/tui/theme"
)

var promptCommands = []input.PromptCommand{
	{Name: "/new", Args: "<table>", Description: "Create an empty table"},
	{Name: "/dup", Args: "[source] <table>", Description: "Duplicate a table"},
	{Name: "/delete", Args: "<table>", Description: "Delete a table"},
	{Name: "/add", Args: "<day> <slots> <title> [@room]", Description: "Add an entry to the focused table"},
	{Name: "/rm", Args: "<index>", Description: "Remove an entry from the focused table"},
	{Name: "/copy", Description: "Copy the focused table"},
	{Name: "/theme", Args: "<name>", Description: "Switch color theme"},
	{Name: "/help", Description: "Show available commands"},
	{Name: "/quit", Description: "Exit"},
}

// runPrompt executes one prompt line.
func (m Model) runPrompt(line string) (tea.Model, tea.Cmd) {
	name, args, ok := input.Parse(line)
	if !ok {
		if strings.TrimSpace(line) == "" {
			return m, nil
		}
		cmd := m.setStatus("Commands start with /", true)
		return m, cmd
	}
	m.log.Debug().Str("command", name).Strs("args", args).Msg("prompt command")

	var (
		cmd tea.Cmd
		err error
	)
	switch name {
	case "/new":
		cmd, err = m.promptNew(args)
	case "/dup":
		cmd, err = m.promptDuplicate(args)
	case "/delete":
		cmd, err = m.promptDelete(args)
	case "/add":
		cmd, err = m.promptAdd(args)
	case "/rm":
		cmd, err = m.promptRemove(args)
	case "/copy":
		id, ok := m.focusedTable()
		if !ok {
			err = fmt.Errorf("no table to copy")
			break
		}
		cmd = commands.CopyText(m.tableText(id), id)
	case "/theme":
		cmd, err = m.promptTheme(args)
	case "/help":
		m.mode = ModeHelp
	case "/quit":
		return m, tea.Quit
	default:
		err = fmt.Errorf("unknown command %s", name)
	}

	if err != nil {
		status := m.setStatus(err.Error(), true)
		return m, status
	}
	return m, cmd
}

func (m *Model) promptNew(args []string) (tea.Cmd, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: /new <table>")
	}
	id := args[0]
	if err := m.store.AddTable(id); err != nil {
		return nil, err
	}
	m.focusTable(id)
	status := m.setStatus("Created "+id, false)
	return tea.Batch(status, m.persistTable(id)), nil
}

func (m *Model) promptDuplicate(args []string) (tea.Cmd, error) {
	var src, dst string
	switch len(args) {
	case 1:
		focused, ok := m.focusedTable()
		if !ok {
			return nil, fmt.Errorf("no table to duplicate")
		}
		src, dst = focused, args[0]
	case 2:
		src, dst = args[0], args[1]
	default:
		return nil, fmt.Errorf("usage: /dup [source] <table>")
	}
	if err := m.store.DuplicateTable(src, dst); err != nil {
		return nil, err
	}
	m.focusTable(dst)
	status := m.setStatus(fmt.Sprintf("Duplicated %s as %s", src, dst), false)
	return tea.Batch(status, m.persistTable(dst)), nil
}

func (m *Model) promptDelete(args []string) (tea.Cmd, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: /delete <table>")
	}
	id := args[0]
	if active, ok := m.coord.ActiveTableID(); ok && active == id {
		return nil, fmt.Errorf("table %s is being dragged", id)
	}
	if err := m.store.RemoveTable(id); err != nil {
		return nil, err
	}
	m.clampFocus()
	m.scrollBy(0)
	status := m.setStatus("Deleted "+id, false)
	return tea.Batch(status, commands.DeleteTable(m.repo, id)), nil
}

// promptAdd parses "<day> <slots> <title words...> [@room]".
func (m *Model) promptAdd(args []string) (tea.Cmd, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("usage: /add <day> <slots> <title> [@room]")
	}
	tableID, ok := m.focusedTable()
	if !ok {
		return nil, fmt.Errorf("create a table first with /new")
	}
	day, ok := m.matchDay(args[0])
	if !ok {
		return nil, fmt.Errorf("%w: %q", schedule.ErrUnknownDay, args[0])
	}
	slots, err := schedule.ParseRange(args[1], m.config.Grid.Slots)
	if err != nil {
		return nil, err
	}
	words := args[2:]
	var room string
	if last := words[len(words)-1]; len(words) > 1 && strings.HasPrefix(last, "@") {
		room = strings.TrimPrefix(last, "@")
		words = words[:len(words)-1]
	}
	entry := schedule.Entry{Day: day, Range: slots, Title: strings.Join(words, " "), Room: room}
	index, err := m.store.AddEntry(tableID, entry)
	if err != nil {
		return nil, err
	}
	status := m.setStatus(fmt.Sprintf("Added %s as %s", entry.Title, schedule.FormatID(tableID, index)), false)
	return tea.Batch(status, m.persistTable(tableID)), nil
}

func (m *Model) promptRemove(args []string) (tea.Cmd, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: /rm <index>")
	}
	tableID, ok := m.focusedTable()
	if !ok {
		return nil, fmt.Errorf("no table focused")
	}
	if _, active := m.coord.ActiveTableID(); active {
		return nil, fmt.Errorf("cannot remove entries while dragging")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("index must be a number, got %q", args[0])
	}
	if err := m.store.RemoveEntry(tableID, index); err != nil {
		return nil, err
	}
	status := m.setStatus("Removed "+schedule.FormatID(tableID, index), false)
	return tea.Batch(status, m.persistTable(tableID)), nil
}

func (m *Model) promptTheme(args []string) (tea.Cmd, error) {
	if len(args) != 1 || !theme.IsAvailable(args[0]) {
		return nil, fmt.Errorf("usage: /theme <%s>", strings.Join(theme.Available(), "|"))
	}
	t, err := theme.Load(args[0])
	if err != nil {
		return nil, err
	}
	m.theme = t
	m.styles = NewStyles(t)
	m.applyStyles()
	return m.setStatus("Theme "+t.Name, false), nil
}

// matchDay resolves a day label case-insensitively.
func (m Model) matchDay(s string) (string, bool) {
	for _, d := range m.store.Days() {
		if strings.EqualFold(d, s) {
			return d, true
		}
	}
	return "", false
}

func (m *Model) focusTable(id string) {
	if i := slices.Index(m.store.Tables(), id); i >= 0 {
		m.focus = i
	}
}
