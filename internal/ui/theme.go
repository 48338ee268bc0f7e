package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/twinpane/internal/config"
)

// Catppuccin Mocha palette, overridable from the [theme] config table.
var (
	ColorGreen  = lipgloss.Color("#a6e3a1")
	ColorYellow = lipgloss.Color("#f9e2af")
	ColorRed    = lipgloss.Color("#f38ba8")
	ColorMuted  = lipgloss.Color("#5a6278")
)

var (
	styleDone     lipgloss.Style
	styleFailed   lipgloss.Style
	styleCancel   lipgloss.Style
	styleDim      lipgloss.Style
	styleError    lipgloss.Style
	styleFilled   lipgloss.Style
	styleStatus   lipgloss.Style
	styleFileSize lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	styleDone = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	styleFailed = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	styleCancel = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	styleDim = lipgloss.NewStyle().Foreground(ColorMuted)
	styleError = lipgloss.NewStyle().Foreground(ColorRed)
	styleFilled = lipgloss.NewStyle().Foreground(ColorGreen)
	styleStatus = lipgloss.NewStyle().Foreground(ColorYellow).Italic(true)
	styleFileSize = lipgloss.NewStyle().Foreground(ColorMuted)
}

// ApplyTheme overrides colors from the config and rebuilds all styles.
func ApplyTheme(tc config.ThemeConfig) {
	if tc.Green != nil {
		ColorGreen = lipgloss.Color(*tc.Green)
	}
	if tc.Yellow != nil {
		ColorYellow = lipgloss.Color(*tc.Yellow)
	}
	if tc.Red != nil {
		ColorRed = lipgloss.Color(*tc.Red)
	}
	if tc.Muted != nil {
		ColorMuted = lipgloss.Color(*tc.Muted)
	}
	rebuildStyles()
}
