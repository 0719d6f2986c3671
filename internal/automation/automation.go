package automation

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted pointer session against a fixed-size surface.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Frames      int            `yaml:"frames"`
	Width       float64        `yaml:"width"`
	Height      float64        `yaml:"height"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one scripted gesture. Kind selects which fields apply:
//
//	move    pointer at (x, y) on frame
//	pass    straight line from (x, y) to (x2, y2) over duration frames
//	orbit   circle of radius r around (cx, cy), turns revolutions
//	poke    from outside the ring at angle straight through the center
//	wander  seeded random walk of duration frames starting at (x, y)
//	resize  surface becomes (w, h) on frame
type ScenarioStep struct {
	Kind     string  `yaml:"kind"`
	Frame    int     `yaml:"frame"`
	Duration int     `yaml:"duration,omitempty"`
	X        float64 `yaml:"x,omitempty"`
	Y        float64 `yaml:"y,omitempty"`
	X2       float64 `yaml:"x2,omitempty"`
	Y2       float64 `yaml:"y2,omitempty"`
	CX       float64 `yaml:"cx,omitempty"`
	CY       float64 `yaml:"cy,omitempty"`
	R        float64 `yaml:"r,omitempty"`
	Angle    float64 `yaml:"angle,omitempty"`
	Turns    float64 `yaml:"turns,omitempty"`
	Step     float64 `yaml:"step,omitempty"`
	Seed     int64   `yaml:"seed,omitempty"`
	W        float64 `yaml:"w,omitempty"`
	H        float64 `yaml:"h,omitempty"`
}

type EventKind int

const (
	Pointer EventKind = iota
	Resize
)

func (k EventKind) String() string {
	if k == Resize {
		return "resize"
	}
	return "pointer"
}

// Event is host input due before the given frame is rendered. For Resize
// events X and Y carry the new width and height.
type Event struct {
	Frame int
	Kind  EventKind
	X, Y  float64
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if s.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", s.Frames)
	}
	if !positive(s.Width) || !positive(s.Height) {
		return fmt.Errorf("invalid surface %gx%g", s.Width, s.Height)
	}
	for i, st := range s.Steps {
		if st.Frame < 0 {
			return fmt.Errorf("step %d: negative frame", i+1)
		}
		for _, v := range []float64{st.X, st.Y, st.X2, st.Y2, st.CX, st.CY, st.R, st.Angle, st.Turns, st.Step} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("step %d (%s): non-finite coordinate", i+1, st.Kind)
			}
		}
		switch st.Kind {
		case "move":
		case "resize":
			if !positive(st.W) || !positive(st.H) {
				return fmt.Errorf("step %d: invalid resize %gx%g", i+1, st.W, st.H)
			}
		case "pass", "orbit", "poke", "wander":
			if st.Duration <= 0 {
				return fmt.Errorf("step %d (%s): duration must be positive", i+1, st.Kind)
			}
		default:
			return fmt.Errorf("step %d: unknown kind %q", i+1, st.Kind)
		}
	}
	return nil
}

// positive reports whether v is finite and greater than zero.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Events expands every step and returns the events ordered by frame.
// Events on the same frame keep their step order.
func (s *Scenario) Events() []Event {
	var events []Event
	for _, st := range s.Steps {
		events = append(events, s.expand(st)...)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Frame < events[j].Frame })
	return events
}

func (s *Scenario) expand(st ScenarioStep) []Event {
	switch st.Kind {
	case "move":
		return []Event{{Frame: st.Frame, X: st.X, Y: st.Y}}
	case "resize":
		return []Event{{Frame: st.Frame, Kind: Resize, X: st.W, Y: st.H}}
	case "pass":
		return line(st.Frame, st.Duration, st.X, st.Y, st.X2, st.Y2)
	case "orbit":
		cx, cy := s.center(st)
		turns := st.Turns
		if turns == 0 {
			turns = 1
		}
		out := make([]Event, st.Duration)
		for i := range out {
			a := 2 * math.Pi * turns * float64(i) / float64(st.Duration)
			out[i] = Event{Frame: st.Frame + i, X: cx + st.R*math.Cos(a), Y: cy + st.R*math.Sin(a)}
		}
		return out
	case "poke":
		cx, cy := s.center(st)
		dx, dy := math.Cos(st.Angle), math.Sin(st.Angle)
		return line(st.Frame, st.Duration, cx+dx*st.R, cy+dy*st.R, cx, cy)
	case "wander":
		step := st.Step
		if step == 0 {
			step = 4
		}
		rng := rand.New(rand.NewSource(st.Seed))
		x, y := st.X, st.Y
		out := make([]Event, st.Duration)
		for i := range out {
			out[i] = Event{Frame: st.Frame + i, X: x, Y: y}
			x = clamp(x+(rng.Float64()-0.5)*2*step, 0, s.Width)
			y = clamp(y+(rng.Float64()-0.5)*2*step, 0, s.Height)
		}
		return out
	}
	return nil
}

func (s *Scenario) center(st ScenarioStep) (float64, float64) {
	cx, cy := st.CX, st.CY
	if cx == 0 && cy == 0 {
		cx, cy = s.Width/2, s.Height/2
	}
	return cx, cy
}

// line samples duration+1 points from (x0, y0) to (x1, y1) inclusive.
func line(frame, duration int, x0, y0, x1, y1 float64) []Event {
	out := make([]Event, duration+1)
	for i := range out {
		t := float64(i) / float64(duration)
		out[i] = Event{Frame: frame + i, X: x0 + (x1-x0)*t, Y: y0 + (y1-y0)*t}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
