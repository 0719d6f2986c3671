package dynamo

// DefaultCurveSteps is the number of line segments a quadratic curve is
// flattened into by raster surfaces.
const DefaultCurveSteps = 8

type segKind uint8

const (
	segMove segKind = iota
	segQuad
	segClose
)

type pathSeg struct {
	kind segKind
	ctrl Vec2
	to   Vec2
}

// Path records canvas-style path commands. Raster surfaces embed it and
// flatten the recorded curves when filling or stroking.
type Path struct {
	segs []pathSeg
}

func (p *Path) BeginPath() { p.segs = p.segs[:0] }

func (p *Path) MoveTo(x, y float64) {
	p.segs = append(p.segs, pathSeg{kind: segMove, to: V(x, y)})
}

func (p *Path) QuadraticCurveTo(cpx, cpy, x, y float64) {
	p.segs = append(p.segs, pathSeg{kind: segQuad, ctrl: V(cpx, cpy), to: V(x, y)})
}

func (p *Path) ClosePath() {
	p.segs = append(p.segs, pathSeg{kind: segClose})
}

// Empty reports whether no drawable segment has been recorded.
func (p *Path) Empty() bool {
	for _, s := range p.segs {
		if s.kind == segQuad {
			return false
		}
	}
	return true
}

// Flatten converts the recorded path into polylines, one per subpath.
// Every quadratic curve becomes steps straight segments. Subpaths are
// returned open; a closed subpath repeats its first vertex at the end.
func (p *Path) Flatten(steps int) [][]Vec2 {
	if steps < 1 {
		steps = 1
	}
	var (
		out  [][]Vec2
		cur  []Vec2
		pen  Vec2
		open bool
	)
	flush := func() {
		if len(cur) > 1 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, s := range p.segs {
		switch s.kind {
		case segMove:
			flush()
			pen, open = s.to, true
			cur = []Vec2{pen}
		case segQuad:
			if !open {
				pen, open = s.to, true
				cur = []Vec2{pen}
				continue
			}
			for i := 1; i <= steps; i++ {
				cur = append(cur, QuadPoint(pen, s.ctrl, s.to, float64(i)/float64(steps)))
			}
			pen = s.to
		case segClose:
			if len(cur) > 0 && cur[len(cur)-1] != cur[0] {
				cur = append(cur, cur[0])
			}
			if len(cur) > 0 {
				pen = cur[0]
			}
		}
	}
	flush()
	return out
}

// QuadPoint evaluates the quadratic Bezier p0-c-p1 at t.
func QuadPoint(p0, c, p1 Vec2, t float64) Vec2 {
	u := 1 - t
	return Vec2{
		X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
	}
}

// Fan splits a closed polyline into triangles around its centroid, each
// wound counter-clockwise on a y-down surface. It suits star-shaped
// outlines such as a ring contour.
func Fan(poly []Vec2) [][3]Vec2 {
	if n := len(poly); n > 1 && poly[0] == poly[n-1] {
		poly = poly[:n-1]
	}
	if len(poly) < 3 {
		return nil
	}
	var c Vec2
	for _, p := range poly {
		c = c.Add(p)
	}
	c = c.Scale(1 / float64(len(poly)))

	tris := make([][3]Vec2, 0, len(poly))
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		// y grows downward, so a positive cross product is clockwise on screen.
		if (a.X-c.X)*(b.Y-c.Y)-(a.Y-c.Y)*(b.X-c.X) > 0 {
			a, b = b, a
		}
		tris = append(tris, [3]Vec2{c, a, b})
	}
	return tris
}
