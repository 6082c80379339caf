package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/javiermolinar/timegrid/internal/db"
)

// OpenRepo opens the SQLite database at dbPath, creating its directory.
func OpenRepo(dbPath string) (*db.SQLite, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path is empty")
	}
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return repo, nil
}
