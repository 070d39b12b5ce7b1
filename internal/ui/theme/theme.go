package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: field-manual olive with signal colors
var (
	Primary   = lipgloss.Color("#A3B18A") // Sage
	Secondary = lipgloss.Color("#E9C46A") // Brass
	Accent    = lipgloss.Color("#F4A261") // Signal Orange
	Success   = lipgloss.Color("#2A9D8F") // Teal
	Error     = lipgloss.Color("#E76F51") // Burnt Red
	Text      = lipgloss.Color("#F1FAEE") // Off White
	TextDim   = lipgloss.Color("#8D99AE") // Slate
	BgCard    = lipgloss.Color("#283026") // Olive Drab
	Border    = lipgloss.Color("#3A5A40") // Hunter
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Trap = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)
