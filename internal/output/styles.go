package output

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary = lipgloss.Color("#2E86AB")
	ColorSuccess = lipgloss.Color("#3BB273")
	ColorDanger  = lipgloss.Color("#E15554")
	ColorMuted   = lipgloss.Color("#7A7A7A")
)

// Base styles
var (
	TitleStyle          = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SubtitleStyle       = lipgloss.NewStyle().Foreground(ColorMuted)
	MetricPositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	MetricNegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)
)

// signedStyle picks the positive or negative style for v's sign.
func signedStyle(negative bool) lipgloss.Style {
	if negative {
		return MetricNegativeStyle
	}
	return MetricPositiveStyle
}

// heatmapCell renders text on a heatmap background.
func heatmapCell(text string, c RGB, width int) string {
	return lipgloss.NewStyle().
		Background(c.Color()).
		Foreground(lipgloss.Color("#000000")).
		Width(width).
		Align(lipgloss.Right).
		Render(text)
}
