package export

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"

	"github.com/san-kum/blobsim/internal/dynamo"
)

// Raster is an anti-aliased RGBA drawing surface backed by the
// x/image/vector rasterizer. Curves are flattened before filling.
type Raster struct {
	dynamo.Path

	img         *image.RGBA
	Background  dynamo.Color
	StrokeWidth float64
	CurveSteps  int

	fill   dynamo.Color
	stroke dynamo.Color
}

func NewRaster(w, h int) *Raster {
	r := &Raster{
		Background:  DefaultBackground,
		StrokeWidth: 1.5,
		CurveSteps:  2 * dynamo.DefaultCurveSteps,
		fill:        dynamo.DefaultFill,
		stroke:      dynamo.DefaultStroke,
	}
	r.Resize(float64(w), float64(h))
	return r
}

func (r *Raster) Size() (float64, float64) {
	b := r.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Resize replaces the backing image; its contents are cleared.
func (r *Raster) Resize(w, h float64) {
	r.img = image.NewRGBA(image.Rect(0, 0, int(math.Max(w, 0)), int(math.Max(h, 0))))
	r.ClearRect(0, 0, w, h)
}

func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) ClearRect(x, y, w, h float64) {
	rect := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+w)), int(math.Ceil(y+h)))
	draw.Draw(r.img, rect.Intersect(r.img.Bounds()), image.NewUniform(r.Background.RGBA()), image.Point{}, draw.Src)
}

func (r *Raster) SetFillColor(c dynamo.Color)   { r.fill = c }
func (r *Raster) SetStrokeColor(c dynamo.Color) { r.stroke = c }

func (r *Raster) rasterizer() *vector.Rasterizer {
	b := r.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	return z
}

func (r *Raster) paint(z *vector.Rasterizer, c dynamo.Color) {
	z.Draw(r.img, r.img.Bounds(), image.NewUniform(c.RGBA()), image.Point{})
}

func (r *Raster) Fill() {
	polys := r.Flatten(r.CurveSteps)
	if len(polys) == 0 || r.img.Bounds().Empty() {
		return
	}
	z := r.rasterizer()
	for _, poly := range polys {
		z.MoveTo(float32(poly[0].X), float32(poly[0].Y))
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()
	}
	r.paint(z, r.fill)
}

// Stroke outlines every flattened segment with a quad of StrokeWidth.
func (r *Raster) Stroke() {
	polys := r.Flatten(r.CurveSteps)
	if len(polys) == 0 || r.img.Bounds().Empty() || r.StrokeWidth <= 0 {
		return
	}
	hw := r.StrokeWidth / 2
	z := r.rasterizer()
	for _, poly := range polys {
		for i := 1; i < len(poly); i++ {
			p, q := poly[i-1], poly[i]
			d := q.Sub(p)
			l := d.Len()
			if l == 0 {
				continue
			}
			n := dynamo.V(-d.Y/l*hw, d.X/l*hw)
			a, b, c, e := p.Add(n), q.Add(n), q.Sub(n), p.Sub(n)
			z.MoveTo(float32(a.X), float32(a.Y))
			z.LineTo(float32(b.X), float32(b.Y))
			z.LineTo(float32(c.X), float32(c.Y))
			z.LineTo(float32(e.X), float32(e.Y))
			z.ClosePath()
		}
	}
	r.paint(z, r.stroke)
}

func (r *Raster) WritePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

var ErrNoFrames = errors.New("export: no frames recorded")

// GIFRecorder collects frames into an animated GIF.
type GIFRecorder struct {
	anim      gif.GIF
	delay     int
	MaxFrames int
}

// NewGIFRecorder records at fps frames per second; GIF delays have a
// resolution of 1/100 s.
func NewGIFRecorder(fps int) *GIFRecorder {
	delay := 2
	if fps > 0 {
		delay = max(1, int(math.Round(100/float64(fps))))
	}
	return &GIFRecorder{delay: delay, MaxFrames: 600}
}

// Add quantises img to the web-safe palette. It reports false once
// MaxFrames is reached.
func (g *GIFRecorder) Add(img image.Image) bool {
	if g.MaxFrames > 0 && len(g.anim.Image) >= g.MaxFrames {
		return false
	}
	b := img.Bounds()
	p := image.NewPaletted(b, color.Palette(palette.WebSafe))
	draw.Draw(p, b, img, b.Min, draw.Src)
	g.anim.Image = append(g.anim.Image, p)
	g.anim.Delay = append(g.anim.Delay, g.delay)
	return true
}

func (g *GIFRecorder) Len() int { return len(g.anim.Image) }

func (g *GIFRecorder) Encode(w io.Writer) error {
	if len(g.anim.Image) == 0 {
		return ErrNoFrames
	}
	return gif.EncodeAll(w, &g.anim)
}
