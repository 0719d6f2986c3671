package physics

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/san-kum/blobsim/internal/dynamo"
)

const (
	DefaultRadius = 150.0
	DefaultPoints = 32
)

// DefaultAnchor centers the ring on its surface.
var DefaultAnchor = dynamo.V(0.5, 0.5)

// UpdatePolicy selects how neighbour state is read during a step.
type UpdatePolicy int

const (
	// Synchronous reads every neighbour from the previous frame.
	Synchronous UpdatePolicy = iota
	// Sequential updates in index order, in place: point i sees the
	// already-updated point i-1 (and the last point sees point 0).
	Sequential
)

// SequentialLimit bounds elasticity/friction under Sequential. The
// in-place order amplifies a single impulse once the ratio passes about
// 0.2; Synchronous has no such bound in the documented range.
const SequentialLimit = 0.15

// CheckStable rejects elasticity e and friction f that diverge under u.
func CheckStable(u UpdatePolicy, e, f float64) error {
	if u == Sequential && e > SequentialLimit*f {
		return dynamo.Reject("elasticity", e,
			fmt.Errorf("%w: sequential needs elasticity <= %g*friction (%g)",
				dynamo.ErrUnstableParams, SequentialLimit, SequentialLimit*f))
	}
	return nil
}

func (u UpdatePolicy) String() string {
	if u == Sequential {
		return "sequential"
	}
	return "synchronous"
}

func ParsePolicy(s string) (UpdatePolicy, error) {
	switch strings.ToLower(s) {
	case "", "synchronous", "sync":
		return Synchronous, nil
	case "sequential", "seq":
		return Sequential, nil
	}
	return Synchronous, fmt.Errorf("unknown update policy: %s", s)
}

type RingParams struct {
	Anchor     dynamo.Vec2
	Radius     float64
	Points     int
	Elasticity float64
	Friction   float64
	// Jitter is the amplitude of the random kick each point receives on
	// Initialize and Reset.
	Jitter float64
	Seed   int64
	Policy UpdatePolicy
	// Accent is the fill applied when the pointer enters; empty leaves
	// the fill unchanged.
	Accent dynamo.Color
}

func DefaultRingParams() RingParams {
	return RingParams{
		Anchor:     DefaultAnchor,
		Radius:     DefaultRadius,
		Points:     DefaultPoints,
		Elasticity: DefaultElasticity,
		Friction:   DefaultFriction,
		Seed:       1,
	}
}

// Ring is the blob: a fixed set of oscillators spaced evenly around a
// center derived from the surface size and the normalized anchor.
type Ring struct {
	anchor     dynamo.Vec2
	radius     float64
	count      int
	elasticity float64
	friction   float64
	jitter     float64
	rng        *rand.Rand
	policy     UpdatePolicy

	points  []*Point
	scratch []float64

	hovered     bool
	fill        dynamo.Color
	accent      dynamo.Color
	prevPointer dynamo.Vec2

	surface dynamo.Surface
}

// NewRing validates p and returns an uninitialized ring.
func NewRing(p RingParams) (*Ring, error) {
	r := &Ring{
		anchor:     DefaultAnchor,
		radius:     DefaultRadius,
		count:      DefaultPoints,
		elasticity: DefaultElasticity,
		friction:   DefaultFriction,
		rng:        rand.New(rand.NewSource(p.Seed)),
	}
	if err := r.SetAnchor(p.Anchor); err != nil {
		return nil, err
	}
	if err := r.SetRadius(p.Radius); err != nil {
		return nil, err
	}
	if err := r.SetPointCount(p.Points); err != nil {
		return nil, err
	}
	if err := r.SetParam("elasticity", p.Elasticity); err != nil {
		return nil, err
	}
	if err := r.SetParam("friction", p.Friction); err != nil {
		return nil, err
	}
	if err := r.SetPolicy(p.Policy); err != nil {
		return nil, err
	}
	if math.IsNaN(p.Jitter) || math.IsInf(p.Jitter, 0) || p.Jitter < 0 {
		return nil, dynamo.Reject("jitter", p.Jitter, dynamo.ErrInvalidParam)
	}
	r.jitter = p.Jitter
	if p.Accent != "" {
		if err := r.SetAccent(string(p.Accent)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Initialize builds the points. It is one-shot: a second call is rejected
// and the existing points are kept.
func (r *Ring) Initialize() error {
	if r.points != nil {
		return dynamo.ErrAlreadyInitialized
	}
	r.points = make([]*Point, r.count)
	r.scratch = make([]float64, r.count)
	for i := range r.points {
		p := NewPoint(i, r.count)
		p.Elasticity, p.Friction = r.elasticity, r.friction
		r.points[i] = p
	}
	r.kick()
	return nil
}

func (r *Ring) Initialized() bool { return r.points != nil }

// Reset returns every point to rest, clears hover and re-applies jitter.
func (r *Ring) Reset() {
	for _, p := range r.points {
		p.reset()
	}
	r.hovered = false
	r.fill = ""
	r.kick()
}

func (r *Ring) kick() {
	if r.jitter == 0 {
		return
	}
	for _, p := range r.points {
		p.SetAcceleration(-r.jitter + r.rng.Float64()*2*r.jitter)
	}
}

// SetAnchor assigns the normalized center; invalid values are rejected
// and the previous anchor retained.
func (r *Ring) SetAnchor(a dynamo.Vec2) error {
	if !a.Finite() || a.X < 0 || a.X > 1 || a.Y < 0 || a.Y > 1 {
		return dynamo.Reject("anchor", a, dynamo.ErrInvalidAnchor)
	}
	r.anchor = a
	return nil
}

func (r *Ring) SetRadius(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return dynamo.Reject("radius", v, dynamo.ErrInvalidRadius)
	}
	r.radius = v
	return nil
}

// SetPointCount is only accepted before Initialize.
func (r *Ring) SetPointCount(n int) error {
	if n <= 2 {
		return dynamo.Reject("points", n, dynamo.ErrInvalidPointCount)
	}
	if r.points != nil {
		return dynamo.Reject("points", n, dynamo.ErrAlreadyInitialized)
	}
	r.count = n
	return nil
}

func (r *Ring) SetAccent(c string) error {
	col, err := dynamo.ParseColor(c)
	if err != nil {
		return err
	}
	r.accent = col
	return nil
}

func (r *Ring) SetFillColor(c string) error {
	col, err := dynamo.ParseColor(c)
	if err != nil {
		return err
	}
	r.fill = col
	return nil
}

// SetSurface attaches the drawing surface. Nil surfaces are rejected.
func (r *Ring) SetSurface(s dynamo.Surface) error {
	if !dynamo.ValidSurface(s) {
		return dynamo.ErrInvalidSurface
	}
	r.surface = s
	return nil
}

func (r *Ring) Surface() dynamo.Surface  { return r.surface }
func (r *Ring) Anchor() dynamo.Vec2      { return r.anchor }
func (r *Ring) Radius() float64          { return r.radius }
func (r *Ring) PointCount() int          { return r.count }
func (r *Ring) Points() []*Point         { return r.points }
func (r *Ring) Hovered() bool            { return r.hovered }
func (r *Ring) Policy() UpdatePolicy     { return r.policy }
func (r *Ring) Accent() dynamo.Color     { return r.accent }
func (r *Ring) PrevPointer() dynamo.Vec2 { return r.prevPointer }

// SetPolicy switches the update order when the current parameters are
// stable under u.
func (r *Ring) SetPolicy(u UpdatePolicy) error {
	if err := CheckStable(u, r.elasticity, r.friction); err != nil {
		return err
	}
	r.policy = u
	return nil
}

// FillColor is the current fill, black unless set.
func (r *Ring) FillColor() dynamo.Color {
	if r.fill == "" {
		return dynamo.DefaultFill
	}
	return r.fill
}

// Center is recomputed from the surface size on every call.
func (r *Ring) Center() dynamo.Vec2 {
	if r.surface == nil {
		return dynamo.Vec2{}
	}
	w, h := r.surface.Size()
	return dynamo.V(w*r.anchor.X, h*r.anchor.Y)
}

// Positions returns the current point positions in index order.
func (r *Ring) Positions() []dynamo.Vec2 {
	c := r.Center()
	out := make([]dynamo.Vec2, len(r.points))
	for i, p := range r.points {
		out[i] = p.Position(c, r.radius)
	}
	return out
}

// State returns radial effects followed by speeds.
func (r *Ring) State() dynamo.State {
	n := len(r.points)
	s := make(dynamo.State, 2*n)
	for i, p := range r.points {
		s[i] = p.radialEffect
		s[n+i] = p.speed
	}
	return s
}

// Kick applies acceleration a to point i.
func (r *Ring) Kick(i int, a float64) error {
	if r.points == nil {
		return dynamo.ErrNotInitialized
	}
	if i < 0 || i >= len(r.points) {
		return dynamo.Reject("index", i, dynamo.ErrInvalidParam)
	}
	r.points[i].SetAcceleration(a)
	return nil
}

// Step advances every oscillator once using its two ring neighbours.
func (r *Ring) Step() {
	n := len(r.points)
	if n == 0 {
		return
	}
	if r.policy == Sequential {
		for i, p := range r.points {
			p.SolveWith(r.points[(i+n-1)%n].radialEffect, r.points[(i+1)%n].radialEffect)
		}
		return
	}
	for i, p := range r.points {
		r.scratch[i] = p.radialEffect
	}
	for i, p := range r.points {
		p.SolveWith(r.scratch[(i+n-1)%n], r.scratch[(i+1)%n])
	}
}

// AdvanceAndRender clears the surface, steps the ring and paints the
// contour with the current fill colour.
func (r *Ring) AdvanceAndRender(p dynamo.Painter) {
	if r.surface != nil {
		w, h := r.surface.Size()
		r.surface.ClearRect(0, 0, w, h)
	}
	r.Step()
	if r.surface != nil && p != nil && len(r.points) > 0 {
		p.Paint(r.surface, r.Positions(), r.FillColor())
	}
}

// GetParams implements dynamo.Configurable
func (r *Ring) GetParams() map[string]float64 {
	return map[string]float64{
		"elasticity": r.elasticity,
		"friction":   r.friction,
		"radius":     r.radius,
	}
}

// SetParam implements dynamo.Configurable
func (r *Ring) SetParam(name string, v float64) error {
	switch name {
	case "radius":
		return r.SetRadius(v)
	case "elasticity", "friction":
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return dynamo.Reject(name, v, dynamo.ErrInvalidParam)
		}
		e, f := r.elasticity, r.friction
		if name == "elasticity" {
			e = v
		} else {
			f = v
		}
		if err := CheckStable(r.policy, e, f); err != nil {
			return err
		}
		if name == "elasticity" {
			r.elasticity = v
		} else {
			r.friction = v
		}
		for _, p := range r.points {
			if name == "elasticity" {
				p.Elasticity = v
			} else {
				p.Friction = v
			}
		}
		return nil
	}
	return dynamo.Reject(name, v, fmt.Errorf("%w: unknown param", dynamo.ErrInvalidParam))
}
