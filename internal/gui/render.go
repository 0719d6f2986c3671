package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/blobsim/internal/dynamo"
)

// Surface draws canvas-style paths with raylib. Curves are flattened and
// filled as a triangle fan around the contour centroid.
type Surface struct {
	dynamo.Path

	W, H        float64
	Background  rl.Color
	StrokeWidth float32
	CurveSteps  int

	fill, stroke rl.Color
}

func NewSurface(w, h float64) *Surface {
	return &Surface{
		W:           w,
		H:           h,
		Background:  ColBg,
		StrokeWidth: 2,
		CurveSteps:  dynamo.DefaultCurveSteps,
		fill:        toRL(dynamo.DefaultFill),
		stroke:      toRL(dynamo.DefaultStroke),
	}
}

func toRL(c dynamo.Color) rl.Color {
	rgba := c.RGBA()
	return rl.NewColor(rgba.R, rgba.G, rgba.B, rgba.A)
}

func vec(p dynamo.Vec2) rl.Vector2 { return rl.NewVector2(float32(p.X), float32(p.Y)) }

func (s *Surface) Size() (float64, float64) { return s.W, s.H }
func (s *Surface) Resize(w, h float64)      { s.W, s.H = w, h }

func (s *Surface) ClearRect(x, y, w, h float64) {
	rl.DrawRectangleRec(rl.NewRectangle(float32(x), float32(y), float32(w), float32(h)), s.Background)
}

func (s *Surface) SetFillColor(c dynamo.Color)   { s.fill = toRL(c) }
func (s *Surface) SetStrokeColor(c dynamo.Color) { s.stroke = toRL(c) }

func (s *Surface) Fill() {
	for _, poly := range s.Flatten(s.CurveSteps) {
		for _, tri := range dynamo.Fan(poly) {
			rl.DrawTriangle(vec(tri[0]), vec(tri[1]), vec(tri[2]), s.fill)
		}
	}
}

func (s *Surface) Stroke() {
	for _, poly := range s.Flatten(s.CurveSteps) {
		for i := 1; i < len(poly); i++ {
			rl.DrawLineEx(vec(poly[i-1]), vec(poly[i]), s.StrokeWidth, s.stroke)
		}
	}
}
