package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/blobsim/internal/dynamo"
)

type PhasePoint struct{ X, Y float64 }

// PhasePortrait is the (radialEffect, speed) trajectory of one point.
type PhasePortrait struct {
	Index  int
	Points []PhasePoint
}

// NewPhasePortrait collects the trajectory of point i from recorded
// states. It returns nil if i is out of range for the first state.
func NewPhasePortrait(states []dynamo.State, i int) *PhasePortrait {
	if len(states) == 0 || i < 0 || i >= states[0].Points() {
		return nil
	}
	p := &PhasePortrait{Index: i, Points: make([]PhasePoint, 0, len(states))}
	for _, x := range states {
		n := x.Points()
		if i >= n {
			continue
		}
		p.Points = append(p.Points, PhasePoint{X: x[i], Y: x[n+i]})
	}
	return p
}

type bounds struct{ minX, maxX, minY, maxY float64 }

func boundsOf(pts []PhasePoint) bounds {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, p := range pts {
		b.minX, b.maxX = math.Min(b.minX, p.X), math.Max(b.maxX, p.X)
		b.minY, b.maxY = math.Min(b.minY, p.Y), math.Max(b.maxY, p.Y)
	}
	pad := func(lo, hi float64) (float64, float64) {
		r := hi - lo
		if r == 0 {
			r = 1
		}
		return lo - r*0.1, hi + r*0.1
	}
	b.minX, b.maxX = pad(b.minX, b.maxX)
	b.minY, b.maxY = pad(b.minY, b.maxY)
	return b
}

func (b bounds) cell(x, y float64, width, height int) (row, col int) {
	col = int((x - b.minX) / (b.maxX - b.minX) * float64(width-1))
	row = height - 1 - int((y-b.minY)/(b.maxY-b.minY)*float64(height-1))
	return row, col
}

// ASCII plots the portrait on a width×height character grid with axes
// drawn where zero is visible.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}
	b := boundsOf(p.Points)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for _, pt := range p.Points {
		row, col := b.cell(pt.X, pt.Y, width, height)
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	zr, zc := b.cell(0, 0, width, height)
	if b.minX <= 0 && b.maxX >= 0 {
		for row := range grid {
			if grid[row][zc] == ' ' {
				grid[row][zc] = '│'
			}
		}
	}
	if b.minY <= 0 && b.maxY >= 0 && zr >= 0 && zr < height {
		for col := range grid[zr] {
			if grid[zr][col] == ' ' {
				grid[zr][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// ZeroCrossings returns the interpolated sample positions where data
// crosses zero going upward.
func ZeroCrossings(data []float64) []float64 {
	var out []float64
	for i := 1; i < len(data); i++ {
		prev, cur := data[i-1], data[i]
		if prev < 0 && cur >= 0 {
			frac := -prev / (cur - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			out = append(out, float64(i-1)+frac)
		}
	}
	return out
}

// Period is the mean spacing of upward zero crossings in samples, or 0
// when fewer than two crossings exist.
func Period(data []float64) float64 {
	c := ZeroCrossings(data)
	if len(c) < 2 {
		return 0
	}
	return (c[len(c)-1] - c[0]) / float64(len(c)-1)
}
