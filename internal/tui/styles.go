package tui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	primary lipgloss.Color
	text    lipgloss.Color
	muted   lipgloss.Color
	border  lipgloss.Color
	danger  lipgloss.Color
	success lipgloss.Color
	barFg   lipgloss.Color
	barBg   lipgloss.Color
}

var (
	darkPalette = palette{
		primary: lipgloss.Color("#818CF8"),
		text:    lipgloss.Color("#F9FAFB"),
		muted:   lipgloss.Color("#9CA3AF"),
		border:  lipgloss.Color("#374151"),
		danger:  lipgloss.Color("#F87171"),
		success: lipgloss.Color("#34D399"),
		barFg:   lipgloss.Color("252"),
		barBg:   lipgloss.Color("236"),
	}
	lightPalette = palette{
		primary: lipgloss.Color("#4338CA"),
		text:    lipgloss.Color("#1F2937"),
		muted:   lipgloss.Color("#6B7280"),
		border:  lipgloss.Color("#D1D5DB"),
		danger:  lipgloss.Color("#DC2626"),
		success: lipgloss.Color("#059669"),
		barFg:   lipgloss.Color("236"),
		barBg:   lipgloss.Color("254"),
	}
)

type theme struct {
	dark bool

	title         lipgloss.Style
	subtitle      lipgloss.Style
	label         lipgloss.Style
	focusedLabel  lipgloss.Style
	value         lipgloss.Style
	placeholder   lipgloss.Style
	button        lipgloss.Style
	focusedButton lipgloss.Style
	disabled      lipgloss.Style
	errorBox      lipgloss.Style
	status        lipgloss.Style
	muted         lipgloss.Style
	card          lipgloss.Style
	selectedCard  lipgloss.Style
	cardTitle     lipgloss.Style
	email         lipgloss.Style
	skeleton      lipgloss.Style
	heading       lipgloss.Style
	link          lipgloss.Style
	badge         lipgloss.Style
	statusBar     lipgloss.Style
}

func newTheme(dark bool) theme {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(0, 1)

	button := lipgloss.NewStyle().
		Padding(0, 3).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border)

	return theme{
		dark:     dark,
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.primary).Padding(1, 0, 0, 2),
		subtitle: lipgloss.NewStyle().Foreground(p.muted).Padding(0, 0, 1, 2),
		label:    lipgloss.NewStyle().Foreground(p.muted).Width(14).PaddingLeft(4),
		focusedLabel: lipgloss.NewStyle().Foreground(p.primary).Bold(true).
			Width(14).PaddingLeft(2),
		value:         lipgloss.NewStyle().Foreground(p.text),
		placeholder:   lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		button:        button.Foreground(p.text),
		focusedButton: button.BorderForeground(p.primary).Foreground(p.primary).Bold(true),
		disabled:      button.Foreground(p.muted),
		errorBox: lipgloss.NewStyle().Foreground(p.danger).
			Border(lipgloss.RoundedBorder()).BorderForeground(p.danger).Padding(0, 1),
		status:       lipgloss.NewStyle().Foreground(p.primary).Bold(true),
		muted:        lipgloss.NewStyle().Foreground(p.muted),
		card:         card,
		selectedCard: card.BorderForeground(p.primary),
		cardTitle:    lipgloss.NewStyle().Bold(true).Foreground(p.primary),
		email:        lipgloss.NewStyle().Foreground(p.text),
		skeleton:     lipgloss.NewStyle().Foreground(p.border),
		heading:      lipgloss.NewStyle().Bold(true).Foreground(p.text).MarginTop(1),
		link:         lipgloss.NewStyle().Foreground(p.primary).Underline(true),
		badge:        lipgloss.NewStyle().Foreground(p.success).Bold(true),
		statusBar:    lipgloss.NewStyle().Padding(0, 1).Foreground(p.barFg).Background(p.barBg),
	}
}

func (t theme) name() string {
	if t.dark {
		return "dark"
	}
	return "light"
}
