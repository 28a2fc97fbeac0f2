package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	canvas  lipgloss.Style
	dot     lipgloss.Style
	panel   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	graph   lipgloss.Style
	moving  lipgloss.Style
	resting lipgloss.Style
	paused  lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2),
		dot:    lipgloss.NewStyle().Foreground(t.Primary),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(44),
		header:  lipgloss.NewStyle().Foreground(t.Secondary).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		graph:   lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		moving:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		resting: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		muted:   lipgloss.NewStyle().Foreground(t.Muted),
	}
}

// ProgressBar renders a bar filled to percent (0..1) of width cells.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func Separator(width int) string {
	mid := width / 2
	if mid < 3 {
		return strings.Repeat("─", width)
	}
	return strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3)
}
