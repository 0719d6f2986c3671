package automation

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
)

const scenarioYAML = `
name: demo
description: two gestures
frames: 100
width: 200
height: 100
steps:
  - kind: pass
    frame: 20
    duration: 4
    x: 0
    y: 50
    x2: 200
    y2: 50
  - kind: move
    frame: 5
    x: 10
    y: 10
  - kind: resize
    frame: 20
    w: 400
    h: 100
`

func TestLoadScenario(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "demo.yaml")
	g.Expect(os.WriteFile(path, []byte(scenarioYAML), 0644)).To(Succeed())

	s, err := LoadScenario(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.Name).To(Equal("demo"))
	g.Expect(s.Frames).To(Equal(100))
	g.Expect(s.Steps).To(HaveLen(3))

	events := s.Events()
	g.Expect(events).To(HaveLen(1 + 5 + 1))
	g.Expect(events[0]).To(Equal(Event{Frame: 5, X: 10, Y: 10}))
	g.Expect(events[1]).To(Equal(Event{Frame: 20, X: 0, Y: 50}))
	// same-frame events keep step order
	g.Expect(events[2]).To(Equal(Event{Frame: 20, Kind: Resize, X: 400, Y: 100}))
	g.Expect(events[len(events)-1]).To(Equal(Event{Frame: 24, X: 200, Y: 50}))
}

func TestLoadScenarioRejectsNaNSurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nan.yaml")
	data := "name: nan\nframes: 10\nwidth: .nan\nheight: 100\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for NaN width")
	}
}

func TestEventsSorted(t *testing.T) {
	for _, name := range ListBuiltins() {
		s, err := Builtin(name, 300, 200)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
		events := s.Events()
		for i := 1; i < len(events); i++ {
			if events[i].Frame < events[i-1].Frame {
				t.Errorf("%s: events out of order at %d", name, i)
				break
			}
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		s    Scenario
		ok   bool
	}{
		{"no frames", Scenario{Width: 1, Height: 1}, false},
		{"no surface", Scenario{Frames: 1}, false},
		{"unknown kind", Scenario{Frames: 1, Width: 1, Height: 1, Steps: []ScenarioStep{{Kind: "tap"}}}, false},
		{"pass needs duration", Scenario{Frames: 1, Width: 1, Height: 1, Steps: []ScenarioStep{{Kind: "pass"}}}, false},
		{"negative frame", Scenario{Frames: 1, Width: 1, Height: 1, Steps: []ScenarioStep{{Kind: "move", Frame: -1}}}, false},
		{"nan width", Scenario{Frames: 1, Width: math.NaN(), Height: 1}, false},
		{"infinite height", Scenario{Frames: 1, Width: 1, Height: math.Inf(1)}, false},
		{"nan resize", Scenario{Frames: 1, Width: 1, Height: 1, Steps: []ScenarioStep{{Kind: "resize", W: math.NaN(), H: 1}}}, false},
		{"empty resize", Scenario{Frames: 1, Width: 1, Height: 1, Steps: []ScenarioStep{{Kind: "resize"}}}, false},
		{"nan move", Scenario{Frames: 1, Width: 1, Height: 1, Steps: []ScenarioStep{{Kind: "move", X: math.NaN()}}}, false},
		{"ok", Scenario{Frames: 1, Width: 1, Height: 1, Steps: []ScenarioStep{{Kind: "move"}}}, true},
		{"ok resize", Scenario{Frames: 1, Width: 1, Height: 1, Steps: []ScenarioStep{{Kind: "resize", W: 2, H: 2}}}, true},
	}
	for _, tt := range tests {
		err := tt.s.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestOrbitStaysOnCircle(t *testing.T) {
	s := &Scenario{Frames: 50, Width: 100, Height: 100,
		Steps: []ScenarioStep{{Kind: "orbit", Duration: 40, R: 30}}}
	for _, ev := range s.Events() {
		d := math.Hypot(ev.X-50, ev.Y-50)
		if math.Abs(d-30) > 1e-9 {
			t.Fatalf("frame %d: distance %f from center", ev.Frame, d)
		}
	}
}

func TestPokeEndsAtCenter(t *testing.T) {
	g := NewWithT(t)
	s := &Scenario{Frames: 50, Width: 100, Height: 80,
		Steps: []ScenarioStep{{Kind: "poke", Frame: 3, Duration: 10, Angle: 0, R: 40}}}
	events := s.Events()
	g.Expect(events).To(HaveLen(11))
	g.Expect(events[0].X).To(BeNumerically("~", 90, 1e-9))
	g.Expect(events[0].Frame).To(Equal(3))
	g.Expect(events[10].X).To(BeNumerically("~", 50, 1e-9))
	g.Expect(events[10].Y).To(BeNumerically("~", 40, 1e-9))
}

func TestWanderSeededAndBounded(t *testing.T) {
	g := NewWithT(t)
	s, err := Builtin("wander", 120, 90)
	g.Expect(err).NotTo(HaveOccurred())

	a, b := s.Events(), s.Events()
	g.Expect(a).To(Equal(b))
	for _, ev := range a {
		g.Expect(ev.X).To(BeNumerically(">=", 0))
		g.Expect(ev.X).To(BeNumerically("<=", 120))
		g.Expect(ev.Y).To(BeNumerically(">=", 0))
		g.Expect(ev.Y).To(BeNumerically("<=", 90))
	}
}

func TestBuiltinUnknown(t *testing.T) {
	if _, err := Builtin("nope", 1, 1); err == nil {
		t.Error("expected error for unknown scenario")
	}
}
