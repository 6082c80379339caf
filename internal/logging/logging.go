// Package logging builds component-tagged zerolog loggers.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DebugLogPath is where the TUI writes logs under --debug.
const DebugLogPath = "timegrid-debug.log"

// New returns a JSON logger writing to w.
func New(w io.Writer, component string, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Str("component", component).Logger()
}

// Console returns a human-readable logger on stderr, for CLI commands.
// TIMEGRID_LOG_LEVEL overrides the level.
func Console(component string) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return New(w, component, levelFromEnv(zerolog.WarnLevel))
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// OpenDebugFile truncates path and returns a debug-level logger writing to
// it. The caller closes the returned file.
func OpenDebugFile(path, component string) (zerolog.Logger, io.Closer, error) {
	f, err := os.Create(path)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating debug log: %w", err)
	}
	log := New(f, component, zerolog.DebugLevel)
	log.Debug().Str("log_file", path).Msg("debug start")
	return log, f, nil
}

func levelFromEnv(fallback zerolog.Level) zerolog.Level {
	v := strings.TrimSpace(os.Getenv("TIMEGRID_LOG_LEVEL"))
	if v == "" {
		return fallback
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(v))
	if err != nil {
		return fallback
	}
	return lvl
}
