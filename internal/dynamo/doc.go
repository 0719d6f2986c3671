// Package dynamo provides core primitives shared by the blob simulation.
//
// The package defines the fundamental types and collaborator contracts:
//
//   - [State]: ring state vector, radial effects followed by speeds
//   - [Vec2]: 2D point and vector arithmetic
//   - [Color]: validated hex colour
//   - [Surface]: the 2D drawing surface a ring paints onto
//   - [Painter]: turns ordered ring positions into a painted contour
//   - [Path]: recorded path geometry with quadratic flattening
//
// # Example
//
//	ring, _ := physics.NewRing(physics.DefaultRingParams())
//	_ = ring.SetSurface(canvas)
//	_ = ring.Initialize()
//	ring.AdvanceAndRender(render.NewContour())
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. A ring and its
// surface are owned by a single goroutine; see render.Loop.
package dynamo
