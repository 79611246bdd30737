package style

import "github.com/charmbracelet/lipgloss"

// Semantic colors for boxed messages and the live monitor.
var (
	Text         = lipgloss.Color("#cdd6f4")
	FaintColor   = lipgloss.Color("#6c7086")
	AccentColor  = lipgloss.Color("#cba6f7")
	SuccessColor = lipgloss.Color("#a6e3a1")
	ErrorColor   = lipgloss.Color("#f38ba8")
)
