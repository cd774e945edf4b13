package report

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	colorPrimary = lipgloss.Color("39")  // Blue
	colorSuccess = lipgloss.Color("76")  // Green
	colorWarning = lipgloss.Color("214") // Orange
	colorDanger  = lipgloss.Color("203") // Red
	colorMuted   = lipgloss.Color("240") // Dark gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorMuted)

	usedStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	unusedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorDanger)

	partialStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// FormatCount formats a count for display.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}
