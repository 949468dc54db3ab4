package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA unless configured): headers, dataset ids
// - Muted (gray): Secondary info, estimated ranges, days without data
// - Calendar days with data are drawn in the accent color with a bold weight

const defaultAccent = "#A78BFA"

var (
	// Accent style for dataset ids, paths, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)

	// DayAvailable marks calendar days that have data.
	DayAvailable = AccentBold

	// DayMissing marks calendar days without data.
	DayMissing = Muted
)
