package automation

import (
	"fmt"
	"math"
	"sort"
)

var builtins = map[string]func(w, h float64) *Scenario{
	"idle": func(w, h float64) *Scenario {
		return &Scenario{Name: "idle", Description: "no input, the ring holds its rest shape",
			Frames: 240, Width: w, Height: h}
	},
	"pass": func(w, h float64) *Scenario {
		return &Scenario{Name: "pass", Description: "one fast horizontal sweep across the ring",
			Frames: 480, Width: w, Height: h,
			Steps: []ScenarioStep{{Kind: "pass", Frame: 10, Duration: 30, X: 0, Y: h / 2, X2: w, Y2: h / 2}}}
	},
	"poke": func(w, h float64) *Scenario {
		r := math.Min(w, h) / 2
		return &Scenario{Name: "poke", Description: "a slow jab from the left, then a fast exit upward",
			Frames: 600, Width: w, Height: h,
			Steps: []ScenarioStep{
				{Kind: "poke", Frame: 10, Duration: 40, Angle: math.Pi, R: r},
				{Kind: "pass", Frame: 120, Duration: 4, X: w / 2, Y: h / 2, X2: w / 2, Y2: 0},
			}}
	},
	"orbit": func(w, h float64) *Scenario {
		return &Scenario{Name: "orbit", Description: "the pointer circles the rim, crossing it every half turn",
			Frames: 720, Width: w, Height: h,
			Steps: []ScenarioStep{{Kind: "orbit", Frame: 0, Duration: 360, R: math.Min(w, h) / 3, Turns: 2,
				CX: w/2 + math.Min(w, h)/8, CY: h / 2}}}
	},
	"resize": func(w, h float64) *Scenario {
		return &Scenario{Name: "resize", Description: "a pass, then the surface doubles in width",
			Frames: 360, Width: w, Height: h,
			Steps: []ScenarioStep{
				{Kind: "pass", Frame: 10, Duration: 20, X: 0, Y: h / 2, X2: w, Y2: h / 2},
				{Kind: "resize", Frame: 120, W: 2 * w, H: h},
			}}
	},
	"wander": func(w, h float64) *Scenario {
		return &Scenario{Name: "wander", Description: "seeded random walk from the center",
			Frames: 600, Width: w, Height: h,
			Steps: []ScenarioStep{{Kind: "wander", Frame: 0, Duration: 500, X: w / 2, Y: h / 2, Step: 12, Seed: 3}}}
	},
}

// Builtin returns the named script sized for a w×h surface.
func Builtin(name string, w, h float64) (*Scenario, error) {
	f, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return f(w, h), nil
}

func ListBuiltins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
