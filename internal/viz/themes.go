package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ff8800"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffcc00"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// ThemeIndex returns the position of the named theme, or 0.
func ThemeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
