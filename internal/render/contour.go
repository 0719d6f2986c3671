package render

import "github.com/san-kum/blobsim/internal/dynamo"

// QuadSegment is one quadratic curve of the contour.
type QuadSegment struct {
	Ctrl, To dynamo.Vec2
}

// Contour paints a smooth closed curve through ring positions by chaining
// quadratic curves between consecutive midpoints, using each position as
// the control vertex.
type Contour struct {
	Stroke dynamo.Color
}

func NewContour() *Contour {
	return &Contour{Stroke: dynamo.DefaultStroke}
}

// Segments returns the start point and the n segments of the contour. The
// last segment ends on the start point.
func (c *Contour) Segments(pts []dynamo.Vec2) (dynamo.Vec2, []QuadSegment) {
	n := len(pts)
	if n == 0 {
		return dynamo.Vec2{}, nil
	}
	start := pts[n-1].Mid(pts[0])
	segs := make([]QuadSegment, n)
	for i, p := range pts {
		segs[i] = QuadSegment{Ctrl: p, To: p.Mid(pts[(i+1)%n])}
	}
	return start, segs
}

// Paint implements dynamo.Painter.
func (c *Contour) Paint(s dynamo.Surface, pts []dynamo.Vec2, fill dynamo.Color) {
	if len(pts) < 3 {
		return
	}
	start, segs := c.Segments(pts)

	s.BeginPath()
	s.MoveTo(start.X, start.Y)
	for _, seg := range segs {
		s.QuadraticCurveTo(seg.Ctrl.X, seg.Ctrl.Y, seg.To.X, seg.To.Y)
	}
	s.ClosePath()

	s.SetFillColor(fill)
	s.Fill()
	stroke := c.Stroke
	if stroke == "" {
		stroke = dynamo.DefaultStroke
	}
	s.SetStrokeColor(stroke)
	s.Stroke()
}
