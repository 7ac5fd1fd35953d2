package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for the status dashboard.
const (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan
	colorSuccess   = lipgloss.Color("#22C55E") // Green
	colorWarning   = lipgloss.Color("#EAB308") // Yellow
	colorDanger    = lipgloss.Color("#EF4444") // Red
	colorMuted     = lipgloss.Color("#6B7280") // Gray
)

// Styles used throughout the TUI.
var (
	styleHeader  lipgloss.Style
	styleTitle   lipgloss.Style
	styleBadgeOK lipgloss.Style
	styleBadgeLo lipgloss.Style
	styleLine    lipgloss.Style
	styleLowLine lipgloss.Style
	styleLabel   lipgloss.Style
	styleValue   lipgloss.Style
	styleSpark   lipgloss.Style
	styleContent lipgloss.Style
	styleFooter  lipgloss.Style
)

func init() {
	styleHeader = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(colorMuted).
		MarginBottom(1)

	styleTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSecondary)

	styleBadgeOK = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorSuccess).
		Padding(0, 1)

	styleBadgeLo = styleBadgeOK.
		Background(colorDanger)

	styleLine = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF"))

	styleLowLine = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorDanger)

	styleLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Width(6)

	styleValue = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF"))

	styleSpark = lipgloss.NewStyle().
		Foreground(colorSecondary)

	styleContent = lipgloss.NewStyle().
		Padding(1, 2)

	styleFooter = lipgloss.NewStyle().
		Foreground(colorMuted).
		MarginTop(1)
}

// barColor picks a fill color for a usage percentage. Inverted bars
// (battery) treat low values as the danger zone.
func barColor(percent float64, inverted bool) lipgloss.Color {
	if inverted {
		percent = 100 - percent
	}
	switch {
	case percent >= 90:
		return colorDanger
	case percent >= 70:
		return colorWarning
	default:
		return colorSuccess
	}
}
