package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	PatternStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	KindStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)
)

// SeverityStyle returns the style used for a diagnostic severity name
func SeverityStyle(severity string) lipgloss.Style {
	switch severity {
	case "fatal":
		return ErrorStyle
	case "warning":
		return WarningStyle
	default:
		return InfoStyle
	}
}

// Painter applies styles only when color output is enabled
type Painter struct {
	Color bool
}

// Paint renders s with st, or returns s unchanged in plain mode
func (p Painter) Paint(st lipgloss.Style, s string) string {
	if !p.Color {
		return s
	}
	return st.Render(s)
}

func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}
