// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/timegrid/internal/dnd"
	"github.com/javiermolinar/timegrid/internal/schedule"
)

// Config holds the application configuration.
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	Moves   MovesConfig   `toml:"moves"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Metrics MetricsConfig `toml:"metrics"`
}

// GridConfig holds the table grid geometry, in terminal cells.
type GridConfig struct {
	Days               []string `toml:"days"`                // column labels, left to right
	Slots              int      `toml:"slots"`               // rows per table
	SlotStart          string   `toml:"slot_start"`          // e.g., "09:00", label of slot 0
	SlotMinutes        int      `toml:"slot_minutes"`        // minutes per slot
	CellWidth          int      `toml:"cell_width"`          // columns per day cell
	CellHeight         int      `toml:"cell_height"`         // lines per slot cell
	HeaderWidth        int      `toml:"header_width"`        // time label band
	HeaderHeight       int      `toml:"header_height"`       // day label band
	EdgeMargin         float64  `toml:"edge_margin"`         // extra lower clamp margin, in cells
	ActivationDistance float64  `toml:"activation_distance"` // cells a press must travel to become a drag
}

// MovesConfig holds the guards applied when a block is dropped.
type MovesConfig struct {
	DayPolicy          string `toml:"day_policy"` // "reject", "clamp", "wrap", "unguarded"
	AllowNegativeSlots bool   `toml:"allow_negative_slots"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte", "frappe"
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Addr string `toml:"addr"` // e.g., "127.0.0.1:9464"; empty disables
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Days:               append([]string(nil), schedule.DefaultDayLabels[:5]...),
			Slots:              12,
			SlotStart:          "09:00",
			SlotMinutes:        60,
			CellWidth:          12,
			CellHeight:         1,
			HeaderWidth:        6,
			HeaderHeight:       1,
			EdgeMargin:         0.1,
			ActivationDistance: 0.8,
		},
		Moves: MovesConfig{
			DayPolicy: string(schedule.DayReject),
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timegrid.db"
	}
	return filepath.Join(home, ".local", "share", "timegrid", "timegrid.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "timegrid", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TIMEGRID_DAYS"); v != "" {
		cfg.Grid.Days = splitList(v)
	}
	ints := []struct {
		env string
		dst *int
	}{
		{"TIMEGRID_SLOTS", &cfg.Grid.Slots},
		{"TIMEGRID_CELL_WIDTH", &cfg.Grid.CellWidth},
		{"TIMEGRID_CELL_HEIGHT", &cfg.Grid.CellHeight},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", o.env, v)
		}
		*o.dst = n
	}
	if v := os.Getenv("TIMEGRID_ACTIVATION_DISTANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TIMEGRID_ACTIVATION_DISTANCE must be a number, got %q", v)
		}
		cfg.Grid.ActivationDistance = f
	}
	if v := os.Getenv("TIMEGRID_DAY_POLICY"); v != "" {
		cfg.Moves.DayPolicy = v
	}
	if v := os.Getenv("TIMEGRID_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TIMEGRID_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("TIMEGRID_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	g := c.Grid
	if len(g.Days) == 0 {
		return errors.New("at least one day must be configured")
	}
	seen := make(map[string]bool, len(g.Days))
	for _, d := range g.Days {
		if d == "" {
			return errors.New("day labels cannot be empty")
		}
		if seen[d] {
			return fmt.Errorf("duplicate day label: %s", d)
		}
		seen[d] = true
	}
	if g.Slots <= 0 {
		return errors.New("slots must be positive")
	}
	if err := validateTime(g.SlotStart, "slot_start"); err != nil {
		return err
	}
	if g.SlotMinutes <= 0 {
		return errors.New("slot_minutes must be positive")
	}
	if g.CellWidth < 2 || g.CellHeight < 1 {
		return errors.New("cell_width must be at least 2 and cell_height at least 1")
	}
	if g.HeaderWidth < 0 || g.HeaderHeight < 0 || g.EdgeMargin < 0 || g.ActivationDistance < 0 {
		return errors.New("header sizes, edge_margin and activation_distance cannot be negative")
	}
	if _, err := schedule.ParseDayPolicy(c.Moves.DayPolicy); err != nil {
		return err
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	hour := t[0:2]
	min := t[3:5]
	if !isDigits(hour) || !isDigits(min) {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Policy returns the store move guards described by the config.
func (c *Config) Policy() schedule.Policy {
	days, err := schedule.ParseDayPolicy(c.Moves.DayPolicy)
	if err != nil {
		days = schedule.DayReject
	}
	return schedule.Policy{Days: days, AllowNegativeSlots: c.Moves.AllowNegativeSlots}
}

// SlotLabel returns the "HH:MM" label of a slot row.
func (c *Config) SlotLabel(slot int) string {
	h, _ := strconv.Atoi(c.Grid.SlotStart[0:2])
	m, _ := strconv.Atoi(c.Grid.SlotStart[3:5])
	total := ((h*60+m+slot*c.Grid.SlotMinutes)%(24*60) + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Geometry returns the drag geometry of one table grid, in terminal cells.
func (c *Config) Geometry() dnd.Geometry {
	return dnd.Geometry{
		Cell:         dnd.CellSize{Width: float64(c.Grid.CellWidth), Height: float64(c.Grid.CellHeight)},
		HeaderWidth:  float64(c.Grid.HeaderWidth),
		HeaderHeight: float64(c.Grid.HeaderHeight),
		EdgeMargin:   c.Grid.EdgeMargin,
	}
}
