package metrics

import (
	"math"

	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/physics"
)

// RingEnergy is the discrete wave energy of a ring state: kinetic ½Σv²
// plus the restoring and neighbour-coupling terms ½Σ(k0·r² + (r[i+1]-r[i])²).
func RingEnergy(x dynamo.State) float64 {
	r, v := x.Effects(), x.Speeds()
	n := len(r)
	e := 0.0
	for i := 0; i < n; i++ {
		d := r[(i+1)%n] - r[i]
		e += 0.5*v[i]*v[i] + 0.5*(physics.RestoringGain*r[i]*r[i]+d*d)
	}
	return e
}

// Energy is the mean ring energy over the observed frames.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, frame int) {
	if len(x) < 2 {
		return
	}
	e.totalEnergy += RingEnergy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// Decay is the ratio of the last observed energy to the highest one. A
// settling ring drives it towards zero.
type Decay struct {
	name    string
	peak    float64
	current float64
	samples int
}

func NewDecay() *Decay {
	return &Decay{name: "energy_decay"}
}

func (d *Decay) Name() string { return d.name }

func (d *Decay) Observe(x dynamo.State, frame int) {
	e := RingEnergy(x)
	d.current = e
	d.peak = math.Max(d.peak, e)
	d.samples++
}

func (d *Decay) Value() float64 {
	if d.peak == 0 {
		return 0
	}
	return d.current / d.peak
}

func (d *Decay) Reset() {
	d.peak = 0
	d.current = 0
	d.samples = 0
}

// Activity is the mean |speed| per point per frame.
type Activity struct {
	name    string
	sum     float64
	samples int
}

func NewActivity() *Activity {
	return &Activity{name: "activity"}
}

func (a *Activity) Name() string { return a.name }

func (a *Activity) Observe(x dynamo.State, frame int) {
	v := x.Speeds()
	if len(v) == 0 {
		return
	}
	s := 0.0
	for _, val := range v {
		s += math.Abs(val)
	}
	a.sum += s / float64(len(v))
	a.samples++
}

func (a *Activity) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *Activity) Reset() {
	a.sum = 0
	a.samples = 0
}
