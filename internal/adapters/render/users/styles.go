package users

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	user     lipgloss.Style
	selected lipgloss.Style
	marker   lipgloss.Style
	warning  lipgloss.Style
	hint     lipgloss.Style
	detail   lipgloss.Style
	empty    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		user:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		marker:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		hint:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		detail:   lipgloss.NewStyle().Faint(true),
		empty:    lipgloss.NewStyle().Faint(true),
	}
}
