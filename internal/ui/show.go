package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timegrid/internal/schedule"
	"github.com/javiermolinar/timegrid/internal/tui/view"
)

func (a *App) showCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show <table>",
		Short: "Print a table as a grid",
		Long: `Print one table as a day x time grid, the same text the TUI copies
to the clipboard. Empty slots are left out.`,
		Example: `  timegrid show week-a`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			store, err := a.loadStore(context.Background())
			if err != nil {
				return err
			}
			entries, ok := store.Snapshot()[args[0]]
			if !ok {
				return fmt.Errorf("%w: %q", schedule.ErrTableNotFound, args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatHeader(args[0]))
			if len(entries) == 0 {
				fmt.Fprintln(out, formatMuted("(empty)"))
				return nil
			}
			fmt.Fprintln(out, view.TimetableText(a.config.Grid.Days, slotLabels(a.config.Grid.Slots, a.config.SlotLabel), entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func slotLabels(n int, label func(int) string) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = label(i)
	}
	return labels
}
