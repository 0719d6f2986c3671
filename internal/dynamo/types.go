package dynamo

import "math"

// State is a ring snapshot: n radial effects followed by n speeds.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Points is the number of oscillators encoded in s.
func (s State) Points() int { return len(s) / 2 }

// Effects returns the radial effect half of the state.
func (s State) Effects() []float64 { return s[:len(s)/2] }

// Speeds returns the speed half of the state.
func (s State) Speeds() []float64 { return s[len(s)/2:] }

// MaxAbsEffect returns the largest |radialEffect| in s.
func (s State) MaxAbsEffect() float64 {
	m := 0.0
	for _, v := range s.Effects() {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// Metric accumulates an observable over the frames of a run.
type Metric interface {
	Name() string
	Observe(x State, frame int)
	Value() float64
	Reset()
}

// Observer is notified after every frame.
type Observer interface {
	OnFrame(x State, frame int)
}

// Configurable exposes tunable numeric parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
