package cli

import "github.com/charmbracelet/lipgloss"

// Terminal palette.
var (
	colorAccent  = lipgloss.Color("#20B9B4")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#2C4A54")
)

// styles holds the pre-configured styles used by the shell and subcommands.
var styles = struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Result  lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Foreground(colorSuccess),
	Heading: lipgloss.NewStyle().Foreground(colorAccent),
	Success: lipgloss.NewStyle().Foreground(colorSuccess),
	Warning: lipgloss.NewStyle().Foreground(colorWarning),
	Error:   lipgloss.NewStyle().Foreground(colorError),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Result:  lipgloss.NewStyle().Foreground(colorAccent),
}
