package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/timegrid/internal/config"
	"github.com/javiermolinar/timegrid/internal/schedule"
)

func (a *App) listCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "list [table]",
		Short: "List tables and their entries",
		Long: `List every table, or one table, with the identifier of each entry.

Identifiers have the form table:index and can be passed to 'timegrid move'.`,
		Example: `  timegrid list
  timegrid list week-a`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			store, err := a.loadStore(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tables := store.Tables()
			if len(args) == 1 {
				if _, ok := store.Snapshot()[args[0]]; !ok {
					return fmt.Errorf("%w: %q", schedule.ErrTableNotFound, args[0])
				}
				tables = []string{args[0]}
			}
			if len(tables) == 0 {
				fmt.Fprintln(out, "No tables yet. Create one in the TUI or with 'timegrid import'.")
				return nil
			}

			snapshot := store.Snapshot()
			for i, id := range tables {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printTable(out, a.config, id, snapshot[id], termWidth())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// printTable prints one table, one entry per line, cut to width.
func printTable(out io.Writer, cfg *config.Config, tableID string, entries []*schedule.Entry, width int) {
	fmt.Fprintf(out, "=== %s === %s\n", formatTable(tableID), formatMuted(fmt.Sprintf("%d entries", len(entries))))
	for i, e := range entries {
		first, last := e.Span()
		day := e.Day
		if day == "" {
			day = "-"
		}
		line := fmt.Sprintf("  %s %-4s %s-%s %s",
			formatID(fmt.Sprintf("%-*s", len(tableID)+4, schedule.FormatID(tableID, i))),
			day,
			cfg.SlotLabel(first),
			cfg.SlotLabel(last+1),
			e.Label(),
		)
		fmt.Fprintln(out, ansi.Truncate(line, width, "…"))
	}
}

func formatSlots(slots []int) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = fmt.Sprint(s)
	}
	return strings.Join(parts, ",")
}
