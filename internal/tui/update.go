package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timegrid/internal/tui/commands"
)

// statusDuration is how long a status message stays on screen.
const statusDuration = 3 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.prompt.Width = max(0, msg.Width-4)
		m.scrollBy(0)
		return m, nil

	case commands.LoadedMsg:
		m.store.Replace(msg.Tables, msg.Order)
		m.clampFocus()
		m.scrollBy(0)
		n := len(m.store.Tables())
		m.log.Info().Int("tables", n).Msg("tables loaded")
		cmd := m.setStatus(fmt.Sprintf("Loaded %d tables", n), false)
		return m, cmd

	case commands.SavedMsg:
		m.log.Debug().Str("table", msg.TableID).Msg("table saved")
		return m, nil

	case commands.DeletedMsg:
		m.log.Debug().Str("table", msg.TableID).Msg("table deleted")
		return m, nil

	case commands.ErrMsg:
		m.log.Error().Err(msg.Err).Msg("command failed")
		cmd := m.setStatus(msg.Err.Error(), true)
		return m, cmd

	case commands.StatusMsgCmd:
		cmd := m.setStatus(msg.Msg, false)
		return m, cmd

	case commands.ClearStatusMsg:
		if time.Since(m.statusTime) >= statusDuration {
			m.statusMsg = ""
			m.statusWarn = false
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// setStatus shows a status message and schedules its removal.
func (m *Model) setStatus(msg string, warn bool) tea.Cmd {
	m.statusMsg = msg
	m.statusWarn = warn
	m.statusTime = time.Now()
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

func (m *Model) clampFocus() {
	n := len(m.store.Tables())
	m.focus = min(max(m.focus, 0), max(n-1, 0))
}
