// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timegrid/internal/schedule"
)

// LoadedMsg is sent when tables are loaded from storage.
type LoadedMsg struct {
	Tables schedule.Map
	Order  []string
}

// SavedMsg is sent when a table has been persisted.
type SavedMsg struct {
	TableID string
}

// DeletedMsg is sent when a table has been removed from storage.
type DeletedMsg struct {
	TableID string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

// Load reads every table from the repository.
func Load(repo schedule.Repository) tea.Cmd {
	return func() tea.Msg {
		tables, order, err := repo.Load(context.Background())
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading tables: %w", err)}
		}
		return LoadedMsg{Tables: tables, Order: order}
	}
}

// SaveTable persists one table. entries must come from a store snapshot,
// which is never modified after it is handed out.
func SaveTable(repo schedule.Repository, tableID string, position int, entries []*schedule.Entry) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return SavedMsg{TableID: tableID}
		}
		if err := repo.SaveTable(context.Background(), tableID, position, entries); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving table %s: %w", tableID, err)}
		}
		return SavedMsg{TableID: tableID}
	}
}

// DeleteTable removes one table from storage.
func DeleteTable(repo schedule.Repository, tableID string) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return DeletedMsg{TableID: tableID}
		}
		if err := repo.DeleteTable(context.Background(), tableID); err != nil {
			return ErrMsg{Err: fmt.Errorf("deleting table %s: %w", tableID, err)}
		}
		return DeletedMsg{TableID: tableID}
	}
}

// CopyText writes text to the system clipboard.
func CopyText(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWrite(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: "Copied " + what + " to clipboard"}
	}
}
