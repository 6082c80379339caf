// Package tui provides the terminal user interface for timegrid.
package tui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/timegrid/internal/config"
	"github.com/javiermolinar/timegrid/internal/dnd"
	"github.com/javiermolinar/timegrid/internal/logging"
	"github.com/javiermolinar/timegrid/internal/metrics"
	"github.com/javiermolinar/timegrid/internal/schedule"
	"github.com/javiermolinar/timegrid/internal/tui/commands"
	"github.com/javiermolinar/timegrid/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt
	ModeHelp
)

// titleHeight is the app title line above the tables.
const titleHeight = 1

// liveDrag caches the coordinator's drag state for rendering. It is shared by
// every copy of the model.
type liveDrag struct {
	mu    sync.Mutex
	state dnd.DragState
}

func (l *liveDrag) set(st dnd.DragState) {
	l.mu.Lock()
	l.state = st
	l.mu.Unlock()
}

func (l *liveDrag) get() dnd.DragState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	config *config.Config
	store  *schedule.Store
	coord  *dnd.Coordinator
	repo   schedule.Repository
	log    zerolog.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Components
	keys   keyMap
	help   help.Model
	prompt textinput.Model

	layout  gridLayout
	live    *liveDrag
	pressed *hit // entry under an armed pointer gesture

	// State
	mode   Mode
	focus  int // index into store.Tables()
	scroll int // lines scrolled in the tables area

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusWarn bool
	statusTime time.Time
}

type modelOptions struct {
	repo schedule.Repository
	log  zerolog.Logger
	rec  metrics.Recorder
}

// ModelOption configures optional model behavior.
type ModelOption func(*modelOptions)

// WithRepository persists every change to repo.
func WithRepository(repo schedule.Repository) ModelOption {
	return func(o *modelOptions) { o.repo = repo }
}

// WithLogger sets the logger used by the model and its drag coordinator.
func WithLogger(log zerolog.Logger) ModelOption {
	return func(o *modelOptions) { o.log = log }
}

// WithRecorder sets the drag metrics recorder.
func WithRecorder(rec metrics.Recorder) ModelOption {
	return func(o *modelOptions) { o.rec = rec }
}

// New creates a new TUI model over store.
func New(store *schedule.Store, cfg *config.Config, opts ...ModelOption) Model {
	o := modelOptions{log: logging.Nop(), rec: metrics.Nop{}}
	for _, opt := range opts {
		opt(&o)
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	coord := dnd.New(store,
		dnd.WithGeometry(cfg.Geometry()),
		dnd.WithActivationDistance(cfg.Grid.ActivationDistance),
		dnd.WithLogger(o.log.With().Str("component", "dnd").Logger()),
		dnd.WithRecorder(o.rec),
	)
	live := &liveDrag{}
	coord.OnStateChange(live.set)

	prompt := textinput.New()
	prompt.Placeholder = "/new <table>"
	prompt.CharLimit = 128

	m := Model{
		config: cfg,
		store:  store,
		coord:  coord,
		repo:   o.repo,
		log:    o.log,
		theme:  t,
		styles: styles,
		keys:   defaultKeyMap(),
		help:   help.New(),
		prompt: prompt,
		layout: newGridLayout(cfg),
		live:   live,
		mode:   ModeNormal,
	}
	m.applyStyles()
	return m
}

// applyStyles pushes the current styles into the bubbles components.
func (m *Model) applyStyles() {
	m.help.Styles.ShortKey = m.styles.HelpKeyStyle
	m.help.Styles.ShortDesc = m.styles.HelpDescStyle
	m.help.Styles.ShortSeparator = m.styles.HelpDescStyle
	m.help.Styles.FullKey = m.styles.HelpKeyStyle.Background(m.styles.ModalBgColor)
	m.help.Styles.FullDesc = m.styles.HelpDescStyle.Background(m.styles.ModalBgColor)
	m.help.Styles.FullSeparator = m.styles.HelpDescStyle.Background(m.styles.ModalBgColor)
	m.prompt.TextStyle = m.styles.PromptFocusedStyle
	m.prompt.PromptStyle = m.styles.PromptFocusedStyle
	m.prompt.PlaceholderStyle = m.styles.PromptStyle
}

// Init loads tables from storage.
func (m Model) Init() tea.Cmd {
	if m.repo == nil {
		return nil
	}
	return commands.Load(m.repo)
}

// Run starts the TUI.
func Run(repo schedule.Repository, cfg *config.Config) error {
	return RunWithDebug(repo, cfg, false)
}

// RunWithDebug starts the TUI with optional debug logging to
// logging.DebugLogPath.
func RunWithDebug(repo schedule.Repository, cfg *config.Config, debug bool) error {
	log := logging.Nop()
	if debug {
		l, closer, err := logging.OpenDebugFile(logging.DebugLogPath, "tui")
		if err != nil {
			return err
		}
		defer func() { _ = closer.Close() }()
		log = l
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rec metrics.Recorder = metrics.Nop{}
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		prom, err := metrics.NewProm(reg)
		if err != nil {
			return err
		}
		rec = prom
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, reg); err != nil {
				log.Error().Err(err).Str("addr", cfg.Metrics.Addr).Msg("metrics endpoint stopped")
			}
		}()
	}

	if repo == nil {
		opened, err := OpenRepo(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = opened.Close() }()
		repo = opened
	}

	store := schedule.NewStore(
		schedule.WithDayLabels(cfg.Grid.Days),
		schedule.WithPolicy(cfg.Policy()),
	)
	model := New(store, cfg, WithRepository(repo), WithLogger(log), WithRecorder(rec))

	log.Info().Str("db", cfg.Storage.DBPath).Msg("starting tui")
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
