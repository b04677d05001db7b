package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors and styles of the tree view.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Selected  lipgloss.Style
	StatusBar lipgloss.Style
	Border    lipgloss.Style
}

// DefaultTheme returns the stock theme bound to r.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#F1FA8C"},
		Muted:     lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6272A4"},
		Highlight: lipgloss.AdaptiveColor{Light: "#0B7A75", Dark: "#8BE9FD"},
	}
	t.Selected = r.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#E4DEFC", Dark: "#44475A"}).
		Bold(true)
	t.StatusBar = r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Background(t.Primary).
		Padding(0, 1)
	t.Border = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Muted)
	return t
}
