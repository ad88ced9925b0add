package cli

import "github.com/charmbracelet/lipgloss"

// Palette for terminal output. Rendering degrades to plain text when the
// output is not a terminal.
const (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorPath    = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)

	// SuccessStyle is for completion messages.
	SuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess)

	// ErrorStyle is for the error prefix.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorError)

	// WarningStyle is for dry-run and other caution notices.
	WarningStyle = lipgloss.NewStyle().Foreground(colorWarning)

	// PathStyle is for file system paths and Gradle coordinates.
	PathStyle = lipgloss.NewStyle().Foreground(colorPath)

	// MutedStyle is for secondary details.
	MutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
)
