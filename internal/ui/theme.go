package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/synclink/internal/config"
)

// Default palette.
var (
	defaultGreen  = lipgloss.Color("#a6e3a1")
	defaultBlue   = lipgloss.Color("#89b4fa")
	defaultYellow = lipgloss.Color("#f9e2af")
	defaultRed    = lipgloss.Color("#f38ba8")
	defaultMuted  = lipgloss.Color("#5a6278")
)

// Theme styles feed and summary output. The zero Theme prints plain text.
type Theme struct {
	color bool

	create  lipgloss.Style
	relink  lipgloss.Style
	replace lipgloss.Style
	remove  lipgloss.Style
	muted   lipgloss.Style
	ok      lipgloss.Style
}

// NewTheme builds a Theme from config overrides. With color off every style
// renders its input unchanged.
func NewTheme(tc config.ThemeConfig, color bool) Theme {
	if !color {
		return Theme{}
	}
	pick := func(override *string, def lipgloss.Color) lipgloss.Color {
		if override != nil {
			return lipgloss.Color(*override)
		}
		return def
	}
	green := pick(tc.Green, defaultGreen)
	blue := pick(tc.Blue, defaultBlue)
	yellow := pick(tc.Yellow, defaultYellow)
	red := pick(tc.Red, defaultRed)
	muted := pick(tc.Muted, defaultMuted)

	return Theme{
		color:   true,
		create:  lipgloss.NewStyle().Foreground(green),
		relink:  lipgloss.NewStyle().Foreground(blue),
		replace: lipgloss.NewStyle().Foreground(yellow).Bold(true),
		remove:  lipgloss.NewStyle().Foreground(red),
		muted:   lipgloss.NewStyle().Foreground(muted),
		ok:      lipgloss.NewStyle().Foreground(green).Bold(true),
	}
}

func (t Theme) paint(s lipgloss.Style, text string) string {
	if !t.color {
		return text
	}
	return s.Render(text)
}
