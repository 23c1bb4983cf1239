package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/clientdesk/internal/theme"
)

type palette struct {
	accent  lipgloss.Color
	muted   lipgloss.Color
	danger  lipgloss.Color
	success lipgloss.Color
	border  lipgloss.Color
}

var palettes = map[theme.Mode]palette{
	theme.Light: {
		accent:  lipgloss.Color("#1d4ed8"),
		muted:   lipgloss.Color("#6b7280"),
		danger:  lipgloss.Color("#b91c1c"),
		success: lipgloss.Color("#15803d"),
		border:  lipgloss.Color("#d1d5db"),
	},
	theme.Dark: {
		accent:  lipgloss.Color("#60a5fa"),
		muted:   lipgloss.Color("#9ca3af"),
		danger:  lipgloss.Color("#f87171"),
		success: lipgloss.Color("#4ade80"),
		border:  lipgloss.Color("#374151"),
	},
}

type styles struct {
	title    lipgloss.Style
	heading  lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	overdue  lipgloss.Style
	done     lipgloss.Style
	badge    lipgloss.Style
	sidebar  lipgloss.Style
	pane     lipgloss.Style
}

// newStyles builds the styles for a resolved mode (light or dark).
func newStyles(m theme.Mode) styles {
	p, ok := palettes[m]
	if !ok {
		p = palettes[theme.Light]
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		heading:  lipgloss.NewStyle().Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		muted:    lipgloss.NewStyle().Foreground(p.muted),
		overdue:  lipgloss.NewStyle().Bold(true).Foreground(p.danger),
		done:     lipgloss.NewStyle().Foreground(p.success),
		badge:    lipgloss.NewStyle().Bold(true).Foreground(p.danger),
		sidebar: lipgloss.NewStyle().
			Width(32).
			PaddingRight(2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(p.border),
		pane: lipgloss.NewStyle().PaddingLeft(2),
	}
}
