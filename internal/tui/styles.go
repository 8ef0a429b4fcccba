package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorHeader  = lipgloss.Color("12") // bright blue
	colorMuted   = lipgloss.Color("8")  // dim
	colorError   = lipgloss.Color("1")  // red
	colorLoading = lipgloss.Color("3")  // yellow

	// Canvas behind transparent pixels.
	backdrop = [3]uint8{0x1c, 0x1c, 0x1c}

	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorLoading).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)
