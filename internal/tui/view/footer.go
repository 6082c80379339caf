package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	InnerW      int
	StatusText  string
	StatusStyle lipgloss.Style
	PromptLine  string
	PromptStyle lipgloss.Style
	HelpLine    string
	Bg          lipgloss.Color
}

// FooterHeight is the number of lines RenderFooter produces.
const FooterHeight = 3

// RenderFooter renders the prompt, status and help lines.
func RenderFooter(state FooterViewState) string {
	lines := []string{
		state.PromptStyle.Render(FitWidth(state.PromptLine, state.InnerW)),
		state.StatusStyle.Render(FitWidth(state.StatusText, state.InnerW)),
		state.HelpLine,
	}
	return PlaceBox(state.InnerW, FooterHeight, lipgloss.Bottom, strings.Join(lines, "\n"), state.Bg)
}
