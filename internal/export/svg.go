package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/blobsim/internal/analysis"
	"github.com/san-kum/blobsim/internal/dynamo"
)

const DefaultBackground dynamo.Color = "#ffffff"

// SVG is a drawing surface that records filled and stroked paths as SVG
// elements, keeping quadratic curves as native Q commands.
type SVG struct {
	w, h        float64
	Background  dynamo.Color
	StrokeWidth float64

	d      strings.Builder
	fill   dynamo.Color
	stroke dynamo.Color
	elems  []string
}

func NewSVG(w, h float64) *SVG {
	return &SVG{
		w: w, h: h,
		Background:  DefaultBackground,
		StrokeWidth: 1.5,
		fill:        dynamo.DefaultFill,
		stroke:      dynamo.DefaultStroke,
	}
}

func (s *SVG) Size() (float64, float64) { return s.w, s.h }

func (s *SVG) Resize(w, h float64) { s.w, s.h = w, h }

// ClearRect drops everything drawn so far when it covers the whole
// surface, and paints a background rectangle otherwise.
func (s *SVG) ClearRect(x, y, w, h float64) {
	if x <= 0 && y <= 0 && x+w >= s.w && y+h >= s.h {
		s.elems = s.elems[:0]
		return
	}
	s.elems = append(s.elems, fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`,
		x, y, w, h, s.Background))
}

func (s *SVG) BeginPath() { s.d.Reset() }

func (s *SVG) MoveTo(x, y float64) { fmt.Fprintf(&s.d, "M%.2f,%.2f ", x, y) }

func (s *SVG) QuadraticCurveTo(cpx, cpy, x, y float64) {
	fmt.Fprintf(&s.d, "Q%.2f,%.2f %.2f,%.2f ", cpx, cpy, x, y)
}

func (s *SVG) ClosePath() { s.d.WriteString("Z") }

func (s *SVG) SetFillColor(c dynamo.Color)   { s.fill = c }
func (s *SVG) SetStrokeColor(c dynamo.Color) { s.stroke = c }

func (s *SVG) Fill() {
	if s.d.Len() == 0 {
		return
	}
	s.elems = append(s.elems, fmt.Sprintf(`<path d="%s" fill="%s" stroke="none"/>`,
		strings.TrimSpace(s.d.String()), s.fill))
}

func (s *SVG) Stroke() {
	if s.d.Len() == 0 {
		return
	}
	s.elems = append(s.elems, fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="%.1f"/>`,
		strings.TrimSpace(s.d.String()), s.stroke, s.StrokeWidth))
}

// Elements returns the recorded elements in paint order.
func (s *SVG) Elements() []string { return s.elems }

func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.w, s.h, s.w, s.h, s.Background)
	for _, e := range s.elems {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// PhaseToSVG plots a phase portrait as a polyline scaled to width×height.
func PhaseToSVG(p *analysis.PhasePortrait, width, height int, strokeColor dynamo.Color) string {
	if p == nil || len(p.Points) < 2 {
		return ""
	}
	points := p.Points

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, pt := range points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, pt := range points {
		x := (pt.X - minX) / rangeX * float64(width)
		y := float64(height) - (pt.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>
`)
	return sb.String()
}
