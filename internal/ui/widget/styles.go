// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME
// =============================================================================

// Theme bundles the widget's styles.
type Theme struct {
	Title         lipgloss.Style
	UserLabel     lipgloss.Style
	BotLabel      lipgloss.Style
	SystemLabel   lipgloss.Style
	StatusBar     lipgloss.Style
	ErrorText     lipgloss.Style
	UsageBadge    lipgloss.Style
	CooldownBadge lipgloss.Style
	ListItem      lipgloss.Style
	ListSelected  lipgloss.Style
	InputBorder   lipgloss.Style

	// GlamourStyle is the markdown style name matched to the terminal
	// background.
	GlamourStyle string
}

// DefaultTheme builds the theme, picking the glamour style from the
// terminal background.
func DefaultTheme() *Theme {
	glamourStyle := "light"
	if termenv.HasDarkBackground() {
		glamourStyle = "dark"
	}

	return &Theme{
		Title:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		UserLabel:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		BotLabel:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		SystemLabel:   lipgloss.NewStyle().Faint(true),
		StatusBar:     lipgloss.NewStyle().Faint(true),
		ErrorText:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		UsageBadge:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		CooldownBadge: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		ListItem:      lipgloss.NewStyle().PaddingLeft(2),
		ListSelected:  lipgloss.NewStyle().PaddingLeft(0).Bold(true).Foreground(lipgloss.Color("212")),
		InputBorder:   lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		GlamourStyle:  glamourStyle,
	}
}
