// Package physics implements the blob: a ring of coupled damped radial
// oscillators and the mapping from pointer motion to impulses.
//
//   - [Point]: one oscillator at a fixed azimuth
//   - [Ring]: the ordered, circular set of points and its hover state
//
// Each frame every point is pulled toward its two neighbours and toward
// zero displacement, damped by friction on its own speed:
//
//	a = (-0.3·r + (rL - r) + (rR - r))·elasticity - speed·friction
//	speed += 2a
//	r += 5·speed
//
// [Ring] implements [dynamo.Configurable] so hosts can tune elasticity,
// friction and radius at runtime:
//
//	ring, _ := physics.NewRing(physics.DefaultRingParams())
//	_ = ring.Initialize()
//	_ = ring.SetParam("friction", 0.02)
package physics
