package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/neonbubbles/internal/render"
)

// Theme defines the terminal colours. Primary and Secondary ink the two
// bubble tints.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Highlight lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:      "neon",
		Primary:   lipgloss.Color("#21c7d9"),
		Secondary: lipgloss.Color("#ff4fa3"),
		Highlight: lipgloss.Color("#ffffff"),
		Accent:    lipgloss.Color("#00ffff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#444466"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#88ff88"),
		Highlight: lipgloss.Color("#ccffcc"),
		Accent:    lipgloss.Color("#00cc00"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Highlight: lipgloss.Color("#e0f0ff"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
		Highlight: lipgloss.Color("#fff5f5"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
	}

	Themes = []Theme{ThemeNeon, ThemeRetroGreen, ThemeOcean, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to neon.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNeon
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after t in Themes.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeNeon
}

// PaletteTheme builds a theme from a render palette, so a configured palette
// shows up in the terminal too.
func PaletteTheme(p render.Palette) Theme {
	t := ThemeNeon
	t.Name = "palette"
	t.Primary = lipgloss.Color(p.Primary.Clamped().Hex())
	t.Secondary = lipgloss.Color(p.Secondary.Clamped().Hex())
	t.Highlight = lipgloss.Color(p.Highlight.Clamped().Hex())
	return t
}
