package dynamo

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a #rrggbb hex colour.
type Color string

const (
	DefaultFill   Color = "#000000"
	DefaultStroke Color = "#000000"
)

// ParseColor validates s and returns it in canonical lower-case #rrggbb form.
func ParseColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return "", Reject("color", s, ErrInvalidColor)
	}
	return Color(c.Hex()), nil
}

// Colorful returns c as a go-colorful value; invalid colours become black.
func (c Color) Colorful() colorful.Color {
	cc, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{}
	}
	return cc
}

// RGBA returns c as an opaque image/color value.
func (c Color) RGBA() color.RGBA {
	r, g, b := c.Colorful().Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Blend mixes c toward o by t in [0,1] in Lab space.
func (c Color) Blend(o Color, t float64) Color {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return o
	}
	return Color(c.Colorful().BlendLab(o.Colorful(), t).Clamped().Hex())
}
