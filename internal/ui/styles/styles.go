// Package styles provides shared lipgloss styles for UI components.
//
// Colors come from the active [Theme]; call [Init] once the config is
// loaded. Until then the default theme applies.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette of the active theme
var (
	// Primary is the main accent color (titles, borders)
	Primary color.Color = DefaultTheme.Primary

	// Accent highlights the selected item
	Accent color.Color = DefaultTheme.Accent

	Success color.Color = DefaultTheme.Success
	Error   color.Color = DefaultTheme.Error
	Warning color.Color = DefaultTheme.Warning

	// Muted is used for hashes, hints and inactive text
	Muted color.Color = DefaultTheme.Muted

	Normal color.Color = DefaultTheme.Normal
	Info   color.Color = DefaultTheme.Info
)

// Common styles
var (
	Bold   = lipgloss.NewStyle().Bold(true)
	Italic = lipgloss.NewStyle().Italic(true)

	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)

	// AccentStyle applies the accent color with bold
	AccentStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	NormalStyle  = lipgloss.NewStyle().Foreground(Normal)

	// InfoStyle applies the info color with italic
	InfoStyle = lipgloss.NewStyle().Foreground(Info).Italic(true)

	// TitleStyle heads a report section
	TitleStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
)

// Border styles
var (
	// RoundedBorder frames summaries such as the replace impact
	RoundedBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	// DangerBorder frames destructive confirmations
	DangerBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Error).
			Padding(0, 1)
)

// HighlightStyle marks fuzzy-matched characters
var HighlightStyle = lipgloss.NewStyle().
	Foreground(Accent).
	Bold(true).
	Underline(true)
