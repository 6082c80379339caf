package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timegrid/internal/config"
	"github.com/javiermolinar/timegrid/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var initFile bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after defaults, the config file and
TIMEGRID_* environment overrides are merged.

With --init, writes the defaults to the config file if it does not exist.`,
		Example: `  timegrid config
  timegrid config --init`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file: %s\n\n", path)

			if initFile {
				created, err := initConfig(path)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(out, "Created %s\n\n", path)
				} else {
					fmt.Fprintln(out, "Config file already exists, leaving it unchanged.")
					fmt.Fprintln(out)
				}
			}

			printConfig(out, a.config)
			return nil
		},
	}

	cmd.Flags().BoolVar(&initFile, "init", false, "Write a default config file if none exists")
	return cmd
}

// initConfig writes the defaults to path unless a file is already there.
func initConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file: %w", err)
	}
	if err := config.Default().SaveTo(path); err != nil {
		return false, fmt.Errorf("saving config: %w", err)
	}
	return true, nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	g := cfg.Grid
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[grid]")
	fmt.Fprintf(out, "  days                = %s\n", strings.Join(g.Days, ", "))
	fmt.Fprintf(out, "  slots               = %d (%s-%s)\n", g.Slots, cfg.SlotLabel(0), cfg.SlotLabel(g.Slots))
	fmt.Fprintf(out, "  slot_minutes        = %d\n", g.SlotMinutes)
	fmt.Fprintf(out, "  cell                = %dx%d\n", g.CellWidth, g.CellHeight)
	fmt.Fprintf(out, "  header              = %dx%d\n", g.HeaderWidth, g.HeaderHeight)
	fmt.Fprintf(out, "  edge_margin         = %g\n", g.EdgeMargin)
	fmt.Fprintf(out, "  activation_distance = %g\n", g.ActivationDistance)
	fmt.Fprintln(out, "\n[moves]")
	fmt.Fprintf(out, "  day_policy          = %s\n", cfg.Policy().Days)
	fmt.Fprintf(out, "  allow_negative_slots = %t\n", cfg.Moves.AllowNegativeSlots)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path             = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme               = %s (available: %s)\n", cfg.UI.Theme, strings.Join(theme.Available(), ", "))
	fmt.Fprintln(out, "\n[metrics]")
	addr := cfg.Metrics.Addr
	if addr == "" {
		addr = "disabled"
	}
	fmt.Fprintf(out, "  addr                = %s\n", addr)
}
