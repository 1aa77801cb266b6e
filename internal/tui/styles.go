// Package tui renders emissions reports for terminals: lipgloss-styled
// summaries with per-scope bars, and Bubble Tea models for the interactive
// calculator and the scenario comparison viewer.
package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	ColorHeader    = lipgloss.Color("39")  // blue
	ColorBorder    = lipgloss.Color("240") // grey
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("255")
	ColorMuted     = lipgloss.Color("241")
	ColorHighlight = lipgloss.Color("212")
	ColorSpinner   = lipgloss.Color("205")
	ColorOK        = lipgloss.Color("42")  // green
	ColorWarning   = lipgloss.Color("214") // orange
	ColorCritical  = lipgloss.Color("196") // red

	ColorScope1 = lipgloss.Color("203")
	ColorScope2 = lipgloss.Color("220")
	ColorScope3 = lipgloss.Color("75")
)

// Icons.
const (
	IconArrowUp    = "↑"
	IconArrowDown  = "↓"
	IconArrowRight = "→"
	IconBarFull    = "█"
	IconBarEmpty   = "░"
)

// Shared styles.
//
//nolint:gochecknoglobals // Style values are read-only after init.
var (
	HeaderStyle   = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	InfoStyle     = lipgloss.NewStyle().Foreground(ColorHeader)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	CriticalStyle = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true)
	OKStyle       = lipgloss.NewStyle().Foreground(ColorOK).Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorHeader).
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(ColorBorder).
				BorderBottom(true)
	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorValue).
				Background(lipgloss.Color("57")).
				Bold(true)
)

// scopeColor returns the bar color for a scope key ("scope1".."scope3").
func scopeColor(scope string) lipgloss.Color {
	switch scope {
	case "scope1":
		return ColorScope1
	case "scope2":
		return ColorScope2
	default:
		return ColorScope3
	}
}
