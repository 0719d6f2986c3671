package physics

import (
	"math"

	"github.com/san-kum/blobsim/internal/dynamo"
)

const (
	// RestoringGain pulls every point back toward zero displacement.
	RestoringGain = 0.3
	// SpeedGain and EffectGain are the per-step integration gains:
	// speed += SpeedGain*acceleration, radialEffect += EffectGain*speed.
	SpeedGain  = 2.0
	EffectGain = 5.0

	DefaultElasticity = 0.001
	DefaultFriction   = 0.0085
)

// Point is a damped radial oscillator at a fixed angular slot of a ring.
type Point struct {
	azimuth   float64
	direction dynamo.Vec2

	radialEffect float64
	speed        float64
	acceleration float64

	Elasticity float64
	Friction   float64
}

// NewPoint places slot index of count at azimuth π - index·2π/count.
func NewPoint(index, count int) *Point {
	az := math.Pi - float64(index)*(2*math.Pi/float64(count))
	return &Point{
		azimuth:    az,
		direction:  dynamo.V(math.Cos(az), math.Sin(az)),
		Elasticity: DefaultElasticity,
		Friction:   DefaultFriction,
	}
}

func (p *Point) Azimuth() float64       { return p.azimuth }
func (p *Point) Direction() dynamo.Vec2 { return p.direction }
func (p *Point) RadialEffect() float64  { return p.radialEffect }
func (p *Point) Speed() float64         { return p.speed }
func (p *Point) Acceleration() float64  { return p.acceleration }

// SetAcceleration records a and integrates it: speed first, then the
// radial effect from the updated speed. Repeated calls integrate again.
func (p *Point) SetAcceleration(a float64) {
	p.acceleration = a
	p.speed += a * SpeedGain
	p.radialEffect += p.speed * EffectGain
}

// Accel is the coupled damped-spring forcing for the given neighbour
// displacements. It does not modify p.
func (p *Point) Accel(left, right float64) float64 {
	r := p.radialEffect
	return (-RestoringGain*r+(left-r)+(right-r))*p.Elasticity - p.speed*p.Friction
}

// SolveWith computes the forcing from both neighbours and applies it.
func (p *Point) SolveWith(left, right float64) {
	p.SetAcceleration(p.Accel(left, right))
}

// Position is center + direction·(baseRadius + radialEffect).
func (p *Point) Position(center dynamo.Vec2, baseRadius float64) dynamo.Vec2 {
	return center.Add(p.direction.Scale(baseRadius + p.radialEffect))
}

func (p *Point) reset() {
	p.radialEffect, p.speed, p.acceleration = 0, 0, 0
}
