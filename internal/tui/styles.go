package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timegrid/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	// Theme colors as lipgloss colors
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorActive      lipgloss.Color
	colorWarning     lipgloss.Color

	// Title line
	TitleStyle lipgloss.Style

	// Table frames: idle, focused, and the table a drag is active in
	FrameStyle        lipgloss.Style
	FrameFocusedStyle lipgloss.Style
	FrameActiveStyle  lipgloss.Style
	TableTitleStyle   lipgloss.Style

	// Grid bands
	DayHeaderStyle  lipgloss.Style
	TimeColumnStyle lipgloss.Style
	EmptyCellStyle  lipgloss.Style

	// Entry blocks
	EntryStyle       lipgloss.Style
	EntryAltStyle    lipgloss.Style
	EntrySourceStyle lipgloss.Style // where a dragged block came from
	GhostStyle       lipgloss.Style

	// Footer
	PromptStyle        lipgloss.Style
	PromptFocusedStyle lipgloss.Style
	StatusStyle        lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	HelpKeyStyle       lipgloss.Style
	HelpDescStyle      lipgloss.Style

	// Help overlay
	ModalStyle   lipgloss.Style
	ModalBgColor lipgloss.Color

	// App container
	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorActive = palette.Active
	s.colorWarning = palette.Warning

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.FrameStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorFgMuted).
		BorderBackground(s.colorBg).
		Background(s.colorBg)

	s.FrameFocusedStyle = s.FrameStyle.
		BorderForeground(s.colorAccent)

	// A drag in progress outranks focus.
	s.FrameActiveStyle = s.FrameStyle.
		BorderForeground(s.colorActive).
		Border(lipgloss.ThickBorder())

	s.TableTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorFg).
		Background(s.colorBgHighlight)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.EntryStyle = lipgloss.NewStyle().
		Background(palette.EntryBg).
		Foreground(palette.TextOnEntry).
		Bold(true)

	s.EntryAltStyle = s.EntryStyle.
		Background(palette.EntryAltBg)

	s.EntrySourceStyle = lipgloss.NewStyle().
		Background(s.colorBgSelection).
		Foreground(s.colorFgMuted).
		Italic(true)

	s.GhostStyle = lipgloss.NewStyle().
		Background(palette.GhostBg).
		Foreground(palette.TextOnGhost).
		Bold(true)

	s.PromptStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBgHighlight)

	s.PromptFocusedStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBgSelection).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorActive).
		Background(s.colorBg).
		Bold(true)

	s.StatusWarnStyle = s.StatusStyle.
		Foreground(s.colorWarning)

	s.HelpKeyStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.HelpDescStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.ModalBgColor = s.colorBgHighlight
	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		BorderBackground(s.ModalBgColor).
		Background(s.ModalBgColor).
		Foreground(s.colorFg).
		Padding(0, 1)

	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg)

	return s
}
