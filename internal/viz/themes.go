package viz

import (
	"github.com/charmbracelet/lipgloss"
	dark "github.com/thiagokokada/dark-mode-go"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
}

// Available themes
var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"), // Magenta
		Secondary: lipgloss.Color("#00ffff"), // Cyan
		Accent:    lipgloss.Color("#ffff00"), // Yellow
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#aaffaa"), // Green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#b8f4ff"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#2a5577"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"), // Coral
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
	}

	// For light terminal backgrounds.
	ThemePaper = Theme{
		Name:      "paper",
		Primary:   lipgloss.Color("#111111"),
		Secondary: lipgloss.Color("#0055aa"),
		Accent:    lipgloss.Color("#aa0055"),
		Text:      lipgloss.Color("#222222"),
		Muted:     lipgloss.Color("#999999"),
	}

	// Default theme
	CurrentTheme = ThemeRetroGreen

	// All available themes
	Themes = []Theme{
		ThemeRetroGreen,
		ThemeCyberpunk,
		ThemeOcean,
		ThemeSunset,
		ThemePaper,
	}
)

// isDarkMode is swapped in tests.
var isDarkMode = dark.IsDarkMode

// GetTheme returns a theme by name. "auto" follows the OS appearance:
// paper on a light desktop, retro otherwise.
func GetTheme(name string) Theme {
	if name == "auto" {
		if d, err := isDarkMode(); err == nil && !d {
			return ThemePaper
		}
		return ThemeRetroGreen
	}
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeRetroGreen
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme cycles CurrentTheme.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, 0, len(Themes)+1)
	for _, t := range Themes {
		names = append(names, t.Name)
	}
	return append(names, "auto")
}
