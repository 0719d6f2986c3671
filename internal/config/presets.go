package config

import "sort"

// Presets are named starting points; a config file and changed flags
// override them.
var Presets = map[string]*Config{
	"calm": {
		Anchor: AnchorConfig{X: 0.5, Y: 0.5}, Radius: 150, Points: 32,
		Elasticity: 0.001, Friction: 0.0085, Seed: 1, Update: "synchronous",
		FPS: 60, Theme: "ink", Width: DefaultWidth, Height: DefaultHeight,
	},
	"jelly": {
		Anchor: AnchorConfig{X: 0.5, Y: 0.5}, Radius: 140, Points: 48,
		Elasticity: 0.002, Friction: 0.004, Jitter: 0.3, Seed: 7, Update: "synchronous",
		FPS: 60, Accent: "#ff5f87", Theme: "candy", Width: DefaultWidth, Height: DefaultHeight,
	},
	"wobbly": {
		Anchor: AnchorConfig{X: 0.5, Y: 0.5}, Radius: 150, Points: 32,
		Elasticity: 0.001, Friction: 0.0085, Jitter: 0.3, Seed: 42, Update: "sequential",
		FPS: 60, Accent: "#5fafff", Theme: "ocean", Width: DefaultWidth, Height: DefaultHeight,
	},
	"tight": {
		Anchor: AnchorConfig{X: 0.5, Y: 0.5}, Radius: 110, Points: 24,
		Elasticity: 0.004, Friction: 0.03, Seed: 1, Update: "synchronous",
		FPS: 60, Accent: "#87d787", Theme: "forest", Width: DefaultWidth, Height: DefaultHeight,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
