package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/blobsim/internal/dynamo"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name string
	// Ink replaces the default black fill, which is invisible on dark
	// terminals.
	Ink     dynamo.Color
	Stroke  dynamo.Color
	Accent  dynamo.Color
	Primary lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// Available themes
var (
	ThemeInk = Theme{
		Name:    "ink",
		Ink:     "#3a3a4a",
		Stroke:  "#d0d0e0",
		Accent:  "#ff00ff",
		Primary: lipgloss.Color("#00ffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeCandy = Theme{
		Name:    "candy",
		Ink:     "#5f005f",
		Stroke:  "#ffafd7",
		Accent:  "#ff5f87",
		Primary: lipgloss.Color("#ff9ff3"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Warning: lipgloss.Color("#ffc048"),
		Error:   lipgloss.Color("#ff4757"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Ink:     "#003355",
		Stroke:  "#00a8cc",
		Accent:  "#ffd700",
		Primary: lipgloss.Color("#0077be"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeForest = Theme{
		Name:    "forest",
		Ink:     "#1c3a1c",
		Stroke:  "#88ff88",
		Accent:  "#ffff00",
		Primary: lipgloss.Color("#00ff00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Ink:     "#2d1b2e",
		Stroke:  "#feca57",
		Accent:  "#ff6b6b",
		Primary: lipgloss.Color("#ff6b6b"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Warning: lipgloss.Color("#ffc048"),
		Error:   lipgloss.Color("#ff4757"),
	}

	// All available themes
	Themes = []Theme{
		ThemeInk,
		ThemeCandy,
		ThemeOcean,
		ThemeForest,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to ink.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeInk
}

// NextTheme returns the theme after t in Themes.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Remap is the canvas colour substitution for t.
func (t Theme) Remap() map[dynamo.Color]dynamo.Color {
	return map[dynamo.Color]dynamo.Color{dynamo.DefaultFill: t.Ink}
}
