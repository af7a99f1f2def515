package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, trimmed to what the home screen uses.
const (
	colorText     lipgloss.Color = "#cdd6f4"
	colorMuted    lipgloss.Color = "#a6adc8"
	colorAccent   lipgloss.Color = "#89b4fa"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorRed      lipgloss.Color = "#f38ba8"
	colorSurface2 lipgloss.Color = "#585b70"
)

var (
	clockStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	dateStyle  = lipgloss.NewStyle().Foreground(colorMuted)

	regionStyle        = lipgloss.NewStyle().Foreground(colorSurface2)
	focusedRegionStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	batteryOKStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	batteryLowStyle = lipgloss.NewStyle().Foreground(colorYellow)
	batteryBadStyle = lipgloss.NewStyle().Foreground(colorRed)

	headerStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	selectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	keyStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
	lockStyle     = lipgloss.NewStyle().Foreground(colorYellow)
)

func batteryStyle(percent int) lipgloss.Style {
	switch {
	case percent <= 15:
		return batteryBadStyle
	case percent <= 35:
		return batteryLowStyle
	}
	return batteryOKStyle
}
