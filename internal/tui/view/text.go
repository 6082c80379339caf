package view

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/javiermolinar/timegrid/internal/schedule"
)

// TimetableText renders a table as an unstyled text grid, one row per slot
// and one column per day. Slots without any entry are left out.
func TimetableText(days, slotLabels []string, entries []*schedule.Entry) string {
	rows := make([][]string, len(slotLabels))
	used := make([]bool, len(slotLabels))
	for i, label := range slotLabels {
		rows[i] = make([]string, len(days)+1)
		rows[i][0] = label
	}

	for _, e := range entries {
		col := slices.Index(days, e.Day)
		if col < 0 {
			continue
		}
		for _, slot := range e.Range {
			if slot < 0 || slot >= len(rows) {
				continue
			}
			cell := &rows[slot][col+1]
			if *cell != "" {
				*cell += " / "
			}
			*cell += e.Label()
			used[slot] = true
		}
	}

	var body [][]string
	for i, row := range rows {
		if used[i] {
			body = append(body, row)
		}
	}

	headers := append([]string{""}, days...)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers(headers...).
		Rows(body...)
	return t.Render()
}
