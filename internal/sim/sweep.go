package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/metrics"
	"github.com/san-kum/blobsim/internal/physics"
)

// SweepConfig describes a grid of (elasticity, friction) pairs. Every
// cell kicks point 0 of a fresh ring once and steps it Frames times.
type SweepConfig struct {
	Elasticity []float64
	Friction   []float64
	Points     int
	Frames     int
	Impulse    float64
	Policy     physics.UpdatePolicy
	// Threshold is the settle band for |radialEffect|.
	Threshold float64
}

func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Elasticity: Linspace(0.0005, 0.004, 8),
		Friction:   Linspace(0.002, 0.03, 8),
		Points:     physics.DefaultPoints,
		Frames:     1200,
		Impulse:    1,
		Threshold:  metrics.DefaultSettleThreshold,
	}
}

type SweepPoint struct {
	Elasticity float64
	Friction   float64
	Peak       float64
	Final      float64
	// SettleFrame is -1 when the ring never settled.
	SettleFrame int
	Stable      bool
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Sweep evaluates every grid cell in parallel. Results are ordered by
// elasticity, then friction.
func Sweep(ctx context.Context, cfg SweepConfig) ([]SweepPoint, error) {
	if len(cfg.Elasticity) == 0 || len(cfg.Friction) == 0 {
		return nil, fmt.Errorf("sweep grid is empty")
	}
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.Points <= 2 {
		return nil, dynamo.Reject("points", cfg.Points, dynamo.ErrInvalidPointCount)
	}

	nf := len(cfg.Friction)
	out := make([]SweepPoint, len(cfg.Elasticity)*nf)
	errs := make([]error, len(out))

	dynamo.ParallelFor(len(out), 1, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			out[i], errs[i] = sweepCell(cfg, cfg.Elasticity[i/nf], cfg.Friction[i%nf])
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func sweepCell(cfg SweepConfig, e, f float64) (SweepPoint, error) {
	p := physics.DefaultRingParams()
	p.Points = cfg.Points
	p.Elasticity = e
	p.Friction = f
	p.Policy = cfg.Policy

	ring, err := physics.NewRing(p)
	if errors.Is(err, dynamo.ErrUnstableParams) {
		inf := math.Inf(1)
		return SweepPoint{Elasticity: e, Friction: f, Peak: inf, Final: inf, SettleFrame: -1}, nil
	}
	if err != nil {
		return SweepPoint{}, err
	}
	if err := ring.Initialize(); err != nil {
		return SweepPoint{}, err
	}
	if err := ring.Kick(0, cfg.Impulse); err != nil {
		return SweepPoint{}, err
	}

	peak := metrics.NewPeak()
	settle := metrics.NewSettle(cfg.Threshold)
	valid := true
	var x dynamo.State
	for frame := 1; frame <= cfg.Frames; frame++ {
		ring.Step()
		x = ring.State()
		if !x.IsValid() {
			valid = false
			break
		}
		peak.Observe(x, frame)
		settle.Observe(x, frame)
	}

	pt := SweepPoint{
		Elasticity:  e,
		Friction:    f,
		Peak:        peak.Value(),
		SettleFrame: int(settle.Value()),
	}
	if valid {
		pt.Final = x.MaxAbsEffect()
		pt.Stable = pt.Final < pt.Peak && !math.IsInf(pt.Peak, 0)
	} else {
		pt.Final = math.Inf(1)
		pt.SettleFrame = -1
	}
	return pt, nil
}

// Best returns the stable point that settles first, or false if none
// settled.
func Best(points []SweepPoint) (SweepPoint, bool) {
	best, found := SweepPoint{}, false
	for _, p := range points {
		if !p.Stable || p.SettleFrame < 0 {
			continue
		}
		if !found || p.SettleFrame < best.SettleFrame {
			best, found = p, true
		}
	}
	return best, found
}
