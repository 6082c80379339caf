package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timegrid/internal/tui/theme"
)

func testTheme() *theme.Theme {
	return &theme.Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Entry:       "#00ff00",
		EntryAlt:    "#0000ff",
		Ghost:       "#ffff00",
		Active:      "#00ffff",
		Warning:     "#ff00ff",
	}
}

func TestStylesBackgroundCoverage(t *testing.T) {
	palette := testTheme()
	styles := NewStyles(palette)

	assertBg := func(t *testing.T, name string, style lipgloss.Style, want string) {
		t.Helper()
		bg, ok := style.GetBackground().(lipgloss.Color)
		if !ok {
			t.Fatalf("%s background type = %T, want lipgloss.Color", name, style.GetBackground())
		}
		if bg != lipgloss.Color(want) {
			t.Fatalf("%s background = %q, want %q", name, bg, want)
		}
	}

	assertBg(t, "EmptyCellStyle", styles.EmptyCellStyle, palette.Bg)
	assertBg(t, "TimeColumnStyle", styles.TimeColumnStyle, palette.Bg)
	assertBg(t, "DayHeaderStyle", styles.DayHeaderStyle, palette.Bg)
	assertBg(t, "FrameStyle", styles.FrameStyle, palette.Bg)
	assertBg(t, "AppStyle", styles.AppStyle, palette.Bg)
	assertBg(t, "GhostStyle", styles.GhostStyle, palette.Ghost)
	assertBg(t, "EntrySourceStyle", styles.EntrySourceStyle, palette.BgSelection)
}

func TestFrameStylesDistinguishFocusAndDrag(t *testing.T) {
	palette := testTheme()
	styles := NewStyles(palette)

	if got := styles.FrameFocusedStyle.GetBorderTopForeground(); got != lipgloss.Color(palette.Accent) {
		t.Errorf("focused border = %v, want accent", got)
	}
	if got := styles.FrameActiveStyle.GetBorderTopForeground(); got != lipgloss.Color(palette.Active) {
		t.Errorf("active border = %v, want active color", got)
	}
	if styles.FrameActiveStyle.GetBorderStyle() != lipgloss.ThickBorder() {
		t.Error("active frame should use a thick border")
	}
}
