package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles used for the chrome around the game canvas.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleVictory = lipgloss.NewStyle().
			Background(lipgloss.Color("22")).
			Foreground(lipgloss.Color("228")).
			Bold(true)
)
