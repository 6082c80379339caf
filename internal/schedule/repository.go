package schedule

import "context"

// Repository defines the storage interface for tables.
type Repository interface {
	// Load returns every table and the table display order.
	Load(ctx context.Context) (Map, []string, error)

	// SaveTable replaces the stored entries of one table, creating it if needed.
	SaveTable(ctx context.Context, tableID string, position int, entries []*Entry) error

	// DeleteTable removes a table and its entries.
	DeleteTable(ctx context.Context, tableID string) error

	// SaveAll replaces everything in storage atomically.
	SaveAll(ctx context.Context, m Map, order []string) error

	// Close releases any resources held by the repository.
	Close() error
}
