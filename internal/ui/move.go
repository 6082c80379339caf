package ui

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timegrid/internal/dnd"
	"github.com/javiermolinar/timegrid/internal/schedule"
)

func (a *App) moveCmd() *cobra.Command {
	var days, slots int

	cmd := &cobra.Command{
		Use:   "move <table:index>",
		Short: "Move an entry by whole days and slots",
		Long: `Move one entry the way a drag and drop would: the offsets are
applied through the same drop path the TUI uses, then the table is saved.

Use 'timegrid list' to find entry identifiers.`,
		Example: `  timegrid move week-a:0 --days 2 --slots 1
  timegrid move week-a:3 --slots -2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			store, err := a.loadStore(ctx)
			if err != nil {
				return err
			}

			res, err := a.applyMove(store, args[0], days, slots)
			if err != nil {
				return err
			}

			tableID := res.Move.TableID
			position := slices.Index(store.Tables(), tableID)
			if err := a.repo.SaveTable(ctx, tableID, position, store.Snapshot()[tableID]); err != nil {
				return fmt.Errorf("saving table %s: %w", tableID, err)
			}

			after := res.Move.After
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s %s -> %s %s\n",
				formatOK("Moved"),
				formatID(args[0]),
				res.Move.Before.Day, formatSlots(res.Move.Before.Range),
				after.Day, formatSlots(after.Range),
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Day offset (negative moves left)")
	cmd.Flags().IntVar(&slots, "slots", 0, "Slot offset (negative moves up)")
	return cmd
}

// applyMove drops the entry named by id at an offset of whole cells.
func (a *App) applyMove(store *schedule.Store, id string, days, slots int) (dnd.Result, error) {
	g := a.config.Geometry()
	coord := dnd.New(store,
		dnd.WithGeometry(g),
		dnd.WithLogger(a.log.With().Str("component", "dnd").Logger()),
	)
	delta := dnd.Point{X: float64(days) * g.Cell.Width, Y: float64(slots) * g.Cell.Height}

	res := coord.DragEnd(id, delta)
	if res.Committed {
		return res, nil
	}
	switch res.Reason {
	case dnd.ReasonTableNotFound:
		tableID, _ := schedule.ParseID(id)
		return res, fmt.Errorf("%w: %q", schedule.ErrTableNotFound, tableID)
	case dnd.ReasonBadIndex:
		return res, fmt.Errorf("invalid entry identifier %q, want table:index", id)
	}
	if res.Err != nil {
		return res, fmt.Errorf("moving %s: %w", id, res.Err)
	}
	return res, fmt.Errorf("moving %s: %s", id, res.Reason)
}
