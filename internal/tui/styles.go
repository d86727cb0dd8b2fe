package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorTitle   = lipgloss.Color("33")
	colorMuted   = lipgloss.Color("242")
	colorCursor  = lipgloss.Color("212")
	colorCorrect = lipgloss.Color("42")
	colorWrong   = lipgloss.Color("196")
	colorButton  = lipgloss.Color("63")
)

// Options controls rendering.
type Options struct {
	Title   string
	NoColor bool
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func bold(text string, noColor bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Render(text)
}

func button(label string, noColor bool) string {
	if noColor {
		return "[ " + label + " ]"
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("230")).
		Background(colorButton).
		Padding(0, 2).
		Render(label)
}
