package dynamo

import "reflect"

// Surface is a 2D drawing surface with canvas-style path construction.
// Coordinates are pixels with the origin at the top-left corner.
type Surface interface {
	Size() (w, h float64)
	ClearRect(x, y, w, h float64)
	BeginPath()
	MoveTo(x, y float64)
	QuadraticCurveTo(cpx, cpy, x, y float64)
	ClosePath()
	SetFillColor(c Color)
	SetStrokeColor(c Color)
	Fill()
	Stroke()
}

// Resizer is implemented by surfaces whose pixel size can change.
type Resizer interface {
	Resize(w, h float64)
}

// Painter paints the closed contour through ordered ring positions.
type Painter interface {
	Paint(s Surface, pts []Vec2, fill Color)
}

// ValidSurface reports whether s can be drawn on.
func ValidSurface(s Surface) bool {
	if s == nil {
		return false
	}
	if v := reflect.ValueOf(s); v.Kind() == reflect.Pointer && v.IsNil() {
		return false
	}
	w, h := s.Size()
	return w >= 0 && h >= 0
}
