package metrics

import (
	"math"

	"github.com/san-kum/blobsim/internal/dynamo"
)

// DefaultSettleThreshold is the largest |radialEffect| still drawn as a
// circle.
const DefaultSettleThreshold = 0.5

// Stability is the fraction of frames whose largest |radialEffect| stays
// within threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x dynamo.State, frame int) {
	s.samples++
	if !x.IsValid() || x.MaxAbsEffect() > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Peak is the largest |radialEffect| seen on any frame.
type Peak struct {
	name  string
	peak  float64
	frame int
}

func NewPeak() *Peak {
	return &Peak{name: "peak", frame: -1}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, frame int) {
	if m := x.MaxAbsEffect(); m > p.peak || p.frame < 0 {
		p.peak = m
		p.frame = frame
	}
}

func (p *Peak) Value() float64 { return p.peak }

// Frame is the frame the peak was observed on, or -1.
func (p *Peak) Frame() int { return p.frame }

func (p *Peak) Reset() {
	p.peak = 0
	p.frame = -1
}

// Settle reports the first frame after which the ring never again
// exceeds threshold. It is -1 while the ring is still outside the band.
type Settle struct {
	name      string
	threshold float64
	since     int
	last      int
}

func NewSettle(threshold float64) *Settle {
	if threshold <= 0 || math.IsNaN(threshold) {
		threshold = DefaultSettleThreshold
	}
	return &Settle{name: "settle_frame", threshold: threshold, since: -1}
}

func (s *Settle) Name() string { return s.name }

func (s *Settle) Observe(x dynamo.State, frame int) {
	s.last = frame
	if !x.IsValid() || x.MaxAbsEffect() > s.threshold {
		s.since = -1
		return
	}
	if s.since < 0 {
		s.since = frame
	}
}

func (s *Settle) Value() float64 { return float64(s.since) }

func (s *Settle) Settled() bool { return s.since >= 0 }

func (s *Settle) Reset() {
	s.since = -1
	s.last = 0
}

// DefaultSet returns the metric set used by the headless runner.
func DefaultSet() []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(),
		NewDecay(),
		NewActivity(),
		NewPeak(),
		NewStability(4 * DefaultSettleThreshold),
		NewSettle(DefaultSettleThreshold),
	}
}
