package ui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	TitleBar     lipgloss.Color
	TitleText    lipgloss.Color
	Page         lipgloss.Color
	PageText     lipgloss.Color
	Border       lipgloss.Color
	StatusBar    lipgloss.Color
	StatusText   lipgloss.Color
	Accent       lipgloss.Color
	PageMargin   int
	PagePadding  int
	MinPageWidth int
	MaxPageWidth int
}

func DefaultTheme() Theme {
	return Theme{
		TitleBar:     lipgloss.Color("#2B579A"),
		TitleText:    lipgloss.Color("#FFFFFF"),
		Page:         lipgloss.Color("#FFFFFF"),
		PageText:     lipgloss.Color("#1F1F1F"),
		Border:       lipgloss.Color("#B2BFD0"),
		StatusBar:    lipgloss.Color("#EAEFF6"),
		StatusText:   lipgloss.Color("#3B3B3B"),
		Accent:       lipgloss.Color("#2B579A"),
		PageMargin:   2,
		PagePadding:  2,
		MinPageWidth: 24,
		MaxPageWidth: 100,
	}
}
