package ui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/timegrid/internal/config"
	"github.com/javiermolinar/timegrid/internal/db"
)

const testTables = `
[[table]]
id = "week-a"

[[table.entry]]
day = "Mon"
range = [3, 4]
title = "Algebra"
room = "B2"

[[table.entry]]
day = "Tue"
range = [1]
title = "Biology"

[[table]]
id = "week-b"
`

func newTestApp(t *testing.T) (*App, *db.SQLite) {
	t.Helper()
	DisableColor()

	dir := t.TempDir()
	repo, err := db.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("creating repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(dir, "test.db")
	return NewApp(repo, cfg), repo
}

// run executes one command line against a fresh root command.
func run(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp(a.repo, a.config)
	app.root.SetOut(&out)
	app.root.SetErr(&out)
	app.root.SetArgs(args)
	err := app.Execute()
	return out.String(), err
}

func writeTables(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.toml")
	if err := os.WriteFile(path, []byte(testTables), 0o644); err != nil {
		t.Fatalf("writing tables: %v", err)
	}
	return path
}

func TestImportAndList(t *testing.T) {
	a, repo := newTestApp(t)

	out, err := run(t, a, "import", writeTables(t))
	if err != nil {
		t.Fatalf("import failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Imported 2 tables (2 entries)") {
		t.Errorf("unexpected import output: %s", out)
	}

	tables, order, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(order) != 2 || order[0] != "week-a" || order[1] != "week-b" {
		t.Errorf("order = %v, want [week-a week-b]", order)
	}
	if got := tables["week-a"]; len(got) != 2 || got[0].ID == "" {
		t.Errorf("imported entries should have storage ids, got %+v", got)
	}

	out, err = run(t, a, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"week-a", "week-a:0", "Mon", "12:00-14:00", "Algebra @B2", "week-a:1", "week-b", "0 entries"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, a, "list", "week-b")
	if err != nil {
		t.Fatalf("list week-b failed: %v", err)
	}
	if strings.Contains(out, "week-a") {
		t.Errorf("list week-b should not print week-a:\n%s", out)
	}

	if _, err := run(t, a, "list", "nope"); err == nil || !strings.Contains(err.Error(), "table not found") {
		t.Errorf("expected table not found, got %v", err)
	}
}

func TestImportDuplicateTable(t *testing.T) {
	a, _ := newTestApp(t)
	path := writeTables(t)

	if _, err := run(t, a, "import", path); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	if _, err := run(t, a, "import", path); err == nil || !strings.Contains(err.Error(), "--replace") {
		t.Errorf("expected duplicate error, got %v", err)
	}
	if _, err := run(t, a, "import", "--replace", path); err != nil {
		t.Errorf("import --replace failed: %v", err)
	}
}

func TestImportReplaceKeepsOrder(t *testing.T) {
	a, repo := newTestApp(t)
	if _, err := run(t, a, "import", writeTables(t)); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "week-a.toml")
	content := "[[table]]\nid = \"week-a\"\n[[table.entry]]\nday = \"Fri\"\nrange = [7]\ntitle = \"Chemistry\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, a, "import", "--replace", path); err != nil {
		t.Fatalf("import --replace failed: %v", err)
	}

	tables, order, err := repo.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "week-a" || order[1] != "week-b" {
		t.Errorf("order = %v, want [week-a week-b]", order)
	}
	if got := tables["week-a"]; len(got) != 1 || got[0].Title != "Chemistry" {
		t.Errorf("week-a should hold only the replacement entry, got %+v", got)
	}
}

func TestImportSlotPastGrid(t *testing.T) {
	a, repo := newTestApp(t)
	path := filepath.Join(t.TempDir(), "big.toml")
	content := "[[table]]\nid = \"x\"\n[[table.entry]]\nday = \"Mon\"\nrange = [3, 400]\ntitle = \"Late\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, a, "import", path); err == nil || !strings.Contains(err.Error(), "past the last grid row") {
		t.Errorf("expected slot range error, got %v", err)
	}
	_, order, err := repo.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 0 {
		t.Errorf("a failed import must not save anything, got %v", order)
	}
}

func TestImportInvalidEntry(t *testing.T) {
	a, repo := newTestApp(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	content := "[[table]]\nid = \"x\"\n[[table.entry]]\nday = \"Sat\"\nrange = [1]\ntitle = \"Weekend\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, a, "import", path); err == nil || !strings.Contains(err.Error(), "not a known day") {
		t.Errorf("expected unknown day error, got %v", err)
	}
	_, order, err := repo.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 0 {
		t.Errorf("a failed import must not save anything, got %v", order)
	}
}

func TestShow(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := run(t, a, "import", writeTables(t)); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, a, "show", "week-a")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"Algebra @B2", "Biology", "10:00", "12:00", "13:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "09:00") {
		t.Errorf("empty slots should be left out:\n%s", out)
	}

	out, err = run(t, a, "show", "week-b")
	if err != nil || !strings.Contains(out, "(empty)") {
		t.Errorf("expected empty table, got %v:\n%s", err, out)
	}
}

func TestMove(t *testing.T) {
	a, repo := newTestApp(t)
	if _, err := run(t, a, "import", writeTables(t)); err != nil {
		t.Fatal(err)
	}
	before, _, err := repo.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	out, err := run(t, a, "move", "week-a:0", "--days", "2", "--slots", "1")
	if err != nil {
		t.Fatalf("move failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Mon 3,4 -> Wed 4,5") {
		t.Errorf("unexpected move output: %s", out)
	}

	after, _, err := repo.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	moved := after["week-a"][0]
	if moved.Day != "Wed" || len(moved.Range) != 2 || moved.Range[0] != 4 {
		t.Errorf("entry after move = %+v", moved)
	}
	if moved.ID != before["week-a"][0].ID {
		t.Error("storage id must survive a move")
	}
	if other := after["week-a"][1]; other.Day != "Tue" || other.Range[0] != 1 {
		t.Errorf("other entries must not change, got %+v", other)
	}
}

func TestMoveErrors(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := run(t, a, "import", writeTables(t)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"past the week", []string{"move", "week-a:0", "--days", "9"}, "outside the week"},
		{"negative slot", []string{"move", "week-a:1", "--slots=-2"}, "cannot be negative"},
		{"missing table", []string{"move", "nope:0"}, "table not found"},
		{"bad index", []string{"move", "week-a:x"}, "table:index"},
		{"missing entry", []string{"move", "week-a:7"}, "entry not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, a, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestExport(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := run(t, a, "import", writeTables(t)); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, a, "export")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	for _, want := range []string{"[[table]]", "week-a", "Algebra", "[[table.entry]]"} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}

	// An exported file imports back into an empty database.
	path := filepath.Join(t.TempDir(), "out", "backup.toml")
	if _, err := run(t, a, "export", path); err != nil {
		t.Fatalf("export to file failed: %v", err)
	}
	b, repo := newTestApp(t)
	if _, err := run(t, b, "import", path); err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	tables, _, err := repo.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tables["week-a"]) != 2 || tables["week-a"][0].Title != "Algebra" {
		t.Errorf("unexpected re-imported tables %+v", tables)
	}
}

func TestConfigInit(t *testing.T) {
	a, _ := newTestApp(t)
	path := filepath.Join(t.TempDir(), "cfg", "config.toml")

	out, err := run(t, a, "--config", path, "config", "--init")
	if err != nil {
		t.Fatalf("config --init failed: %v", err)
	}
	if !strings.Contains(out, "Created "+path) || !strings.Contains(out, "day_policy          = reject") {
		t.Errorf("unexpected config output:\n%s", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not written: %v", err)
	}

	out, err = run(t, a, "--config", path, "config", "--init")
	if err != nil || !strings.Contains(out, "already exists") {
		t.Errorf("second init should leave the file, got %v:\n%s", err, out)
	}
}

func TestVersion(t *testing.T) {
	a, _ := newTestApp(t)
	out, err := run(t, a, "version")
	if err != nil || !strings.HasPrefix(out, "timegrid dev") {
		t.Errorf("unexpected version output %q, %v", out, err)
	}
}
