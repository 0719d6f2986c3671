package physics

import (
	"math"

	"github.com/san-kum/blobsim/internal/dynamo"
)

const (
	// PointerSpeedGain scales the pointer travel between two events.
	PointerSpeedGain = 10.0
	// MaxPointerSpeed caps the scaled travel; an impulse never exceeds
	// MaxPointerSpeed/MaxPointerSpeed = 1 in magnitude.
	MaxPointerSpeed = 100.0
)

// Transition is the hover change caused by one pointer event.
type Transition int

const (
	NoTransition Transition = iota
	Enter
	Leave
)

func (t Transition) String() string {
	switch t {
	case Enter:
		return "enter"
	case Leave:
		return "leave"
	}
	return "none"
}

// Impulse describes what a pointer event did to the ring.
type Impulse struct {
	Transition Transition
	Angle      float64
	// Index is the point that received Value, or -1.
	Index int
	Value float64
}

// PointerMoved maps a pointer position to a hover transition and, when
// one happens, an impulse on the angularly nearest point. Entering pushes
// the surface inward (negative), leaving pushes it outward (positive).
// The pointer position is always remembered for the next speed estimate.
func (r *Ring) PointerMoved(p dynamo.Vec2) Impulse {
	imp := Impulse{Index: -1}
	defer func() { r.prevPointer = p }()

	c := r.Center()
	dist := p.Dist(c)

	switch {
	case dist < r.radius && !r.hovered:
		imp.Transition = Enter
	case dist > r.radius && r.hovered:
		imp.Transition = Leave
	default:
		return imp
	}

	imp.Angle = math.Atan2(p.Y-c.Y, p.X-c.X)
	r.hovered = !r.hovered
	if r.hovered {
		if r.accent != "" {
			r.fill = r.accent
		}
	} else {
		r.fill = ""
	}

	imp.Index = r.nearest(imp.Angle)
	if imp.Index < 0 {
		return imp
	}

	strength := math.Min(p.Dist(r.prevPointer)*PointerSpeedGain, MaxPointerSpeed)
	sign := 1.0
	if r.hovered {
		sign = -1
	}
	imp.Value = strength / MaxPointerSpeed * sign
	r.points[imp.Index].SetAcceleration(imp.Value)
	return imp
}

// nearest returns the index of the point whose azimuth is closest to
// angle, measuring around the circle. Ties keep the lower index. A plain
// |angle - azimuth| comparison differs just above -π: it picks the last
// point instead of point 0, whose azimuth is π.
func (r *Ring) nearest(angle float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, p := range r.points {
		if d := AngularDistance(angle, p.azimuth); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// AngularDistance is the absolute difference of a and b wrapped to [0, π].
func AngularDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
