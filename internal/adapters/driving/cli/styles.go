package cli

import "github.com/charmbracelet/lipgloss"

// Output styles for human-readable command output. Kept deliberately small:
// commands default to plain text and the --json flags bypass styling
// entirely.
var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	styleScore   = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
)
