package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/timegrid/internal/schedule"
)

// tableFile is the TOML layout used by import and export:
//
//	[[table]]
//	id = "week-a"
//	[[table.entry]]
//	day = "Mon"
//	range = [3, 4]
//	title = "Algebra"
type tableFile struct {
	Tables []fileTable `toml:"table"`
}

type fileTable struct {
	ID      string           `toml:"id"`
	Entries []schedule.Entry `toml:"entry"`
}

func (a *App) importCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file.toml>",
		Short: "Import tables from a TOML file",
		Long: `Import every table of a TOML file into the database.

Entries are validated against the configured days. Importing a table that
already exists fails unless --replace is given.`,
		Example: `  timegrid import tables.toml
  timegrid import --replace tables.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			var file tableFile
			if err := toml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}

			ctx := context.Background()
			store, err := a.loadStore(ctx)
			if err != nil {
				return err
			}
			entries, err := importTables(store, file, a.config.Grid.Slots, replace)
			if err != nil {
				return err
			}
			if err := a.repo.SaveAll(ctx, store.Snapshot(), store.Tables()); err != nil {
				return fmt.Errorf("saving tables: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tables (%d entries) from %s\n", len(file.Tables), entries, path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace tables that already exist")
	return cmd
}

// importTables adds every table of file to store and returns the number of
// entries added. Storage ids from the file are dropped so imported entries
// never collide with existing rows. A replaced table keeps its position.
func importTables(store *schedule.Store, file tableFile, slots int, replace bool) (int, error) {
	count := 0
	for _, t := range file.Tables {
		if _, exists := store.Snapshot()[t.ID]; exists && !replace {
			return count, fmt.Errorf("%w: %q (use --replace)", schedule.ErrDuplicateTable, t.ID)
		}
		for i, e := range t.Entries {
			if err := schedule.CheckSlots(e.Range, slots); err != nil {
				return count, fmt.Errorf("table %s entry %d: %w", t.ID, i, err)
			}
		}
		if err := store.SetTable(t.ID, t.Entries); err != nil {
			return count, fmt.Errorf("table %s %w", t.ID, err)
		}
		count += len(t.Entries)
	}
	return count, nil
}

func (a *App) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.toml]",
		Short: "Export tables to a TOML file",
		Long:  `Write every table to a TOML file, or to stdout when no file is given.`,
		Example: `  timegrid export
  timegrid export backup.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore(context.Background())
			if err != nil {
				return err
			}
			data, err := toml.Marshal(exportTables(store))
			if err != nil {
				return fmt.Errorf("encoding tables: %w", err)
			}

			if len(args) == 0 {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			if err := writeFile(path, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tables to %s\n", len(store.Tables()), path)
			return nil
		},
	}
}

func exportTables(store *schedule.Store) tableFile {
	snapshot := store.Snapshot()
	file := tableFile{Tables: make([]fileTable, 0, len(snapshot))}
	for _, id := range store.Tables() {
		t := fileTable{ID: id, Entries: make([]schedule.Entry, 0, len(snapshot[id]))}
		for _, e := range snapshot[id] {
			t.Entries = append(t.Entries, *e)
		}
		file.Tables = append(file.Tables, t)
	}
	return file
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
