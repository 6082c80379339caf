package ui

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/timegrid/internal/config"
	"github.com/javiermolinar/timegrid/internal/logging"
	"github.com/javiermolinar/timegrid/internal/schedule"
	"github.com/javiermolinar/timegrid/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo       schedule.Repository
	ownsRepo   bool
	config     *config.Config
	configPath string
	root       *cobra.Command
	debug      bool // Enable debug logging
	log        zerolog.Logger
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repo is opened lazily from the configured database path.
func NewApp(repo schedule.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg, log: logging.Console("cli")}

	a.root = &cobra.Command{
		Use:   "timegrid",
		Short: "Drag-and-drop timetable editor for the terminal",
		Long: `Timegrid edits weekly timetables in the terminal.

Each table is a grid of days and time slots. Drag an entry with the
mouse to move it; the move snaps to whole cells and is saved on drop.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if a.configPath == "" {
				return nil
			}
			loaded, err := config.LoadFrom(a.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			a.config = loaded
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.RunWithDebug(a.repo, a.config, a.debug)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+logging.DebugLogPath+")")
	a.root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default "+config.DefaultConfigPath()+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "timegrid %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureRepo opens the configured database if no repository was given.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	repo, err := tui.OpenRepo(a.config.Storage.DBPath)
	if err != nil {
		return err
	}
	a.repo = repo
	a.ownsRepo = true
	return nil
}

// loadStore reads every table into a fresh store configured like the TUI's.
func (a *App) loadStore(ctx context.Context) (*schedule.Store, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	tables, order, err := a.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tables: %w", err)
	}
	store := schedule.NewStore(
		schedule.WithDayLabels(a.config.Grid.Days),
		schedule.WithPolicy(a.config.Policy()),
	)
	store.Replace(tables, order)
	return store, nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases a repository opened by the app.
func (a *App) Close() error {
	if a.ownsRepo && a.repo != nil {
		return a.repo.Close()
	}
	return nil
}
