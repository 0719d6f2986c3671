package viz

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/blobsim/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille drawing surface. Its pixel size is (Width*2) x
// (Height*4); each character cell keeps the colour last drawn into it.
type Canvas struct {
	dynamo.Path

	Width, Height int
	Grid          [][]rune
	Colors        [][]dynamo.Color
	CurveSteps    int
	// Remap substitutes colours at draw time, e.g. black fill on a dark
	// terminal.
	Remap map[dynamo.Color]dynamo.Color

	fill   dynamo.Color
	stroke dynamo.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		CurveSteps: dynamo.DefaultCurveSteps,
		fill:       dynamo.DefaultFill,
		stroke:     dynamo.DefaultStroke,
	}
	c.resizeCells(w, h)
	return c
}

func (c *Canvas) resizeCells(w, h int) {
	w, h = max(w, 0), max(h, 0)
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.Colors = make([][]dynamo.Color, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]dynamo.Color, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// Size returns the pixel size.
func (c *Canvas) Size() (float64, float64) {
	return float64(c.Width * 2), float64(c.Height * 4)
}

// Resize takes a pixel size and rounds it up to whole cells.
func (c *Canvas) Resize(w, h float64) {
	c.resizeCells(int(math.Ceil(w/2)), int(math.Ceil(h/4)))
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) setColored(x, y int, col dynamo.Color) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.Set(x, y)
	c.Colors[y/4][x/2] = col
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
	if c.Grid[row][col] == blank {
		c.Colors[row][col] = ""
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = ""
		}
	}
}

func (c *Canvas) ClearRect(x, y, w, h float64) {
	cw, ch := c.Size()
	if x <= 0 && y <= 0 && x+w >= cw && y+h >= ch {
		c.Clear()
		return
	}
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := int(math.Ceil(x+w)), int(math.Ceil(y+h))
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.Unset(px, py)
		}
	}
}

func (c *Canvas) remap(col dynamo.Color) dynamo.Color {
	if r, ok := c.Remap[col]; ok {
		return r
	}
	return col
}

func (c *Canvas) SetFillColor(col dynamo.Color)   { c.fill = c.remap(col) }
func (c *Canvas) SetStrokeColor(col dynamo.Color) { c.stroke = c.remap(col) }

// Fill paints the flattened path with the even-odd rule, sampling pixel
// centres row by row.
func (c *Canvas) Fill() {
	polys := c.Flatten(c.CurveSteps)
	if len(polys) == 0 {
		return
	}
	var xs []float64
	for y := 0; y < c.Height*4; y++ {
		yc := float64(y) + 0.5
		xs = xs[:0]
		for _, poly := range polys {
			for i := 1; i < len(poly); i++ {
				a, b := poly[i-1], poly[i]
				if a.Y == b.Y {
					continue
				}
				if (yc >= a.Y && yc < b.Y) || (yc >= b.Y && yc < a.Y) {
					xs = append(xs, a.X+(yc-a.Y)*(b.X-a.X)/(b.Y-a.Y))
				}
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			from := int(math.Ceil(xs[i] - 0.5))
			to := int(math.Floor(xs[i+1] - 0.5))
			for x := from; x <= to; x++ {
				c.setColored(x, y, c.fill)
			}
		}
	}
}

// Stroke draws the flattened path outline.
func (c *Canvas) Stroke() {
	for _, poly := range c.Flatten(c.CurveSteps) {
		for i := 1; i < len(poly); i++ {
			a, b := poly[i-1], poly[i]
			c.drawLine(int(math.Round(a.X)), int(math.Round(a.Y)), int(math.Round(b.X)), int(math.Round(b.Y)), c.stroke)
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	c.drawLine(x0, y0, x1, y1, c.stroke)
}

func (c *Canvas) drawLine(x0, y0, x1, y1 int, col dynamo.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.setColored(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// String returns the canvas without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render returns the canvas with each run of same-coloured cells styled.
func (c *Canvas) Render() string {
	var b strings.Builder
	for row := range c.Grid {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.Colors[row][col] == c.Colors[row][start] {
				continue
			}
			run := string(c.Grid[row][start:col])
			if fg := c.Colors[row][start]; fg != "" {
				run = lipgloss.NewStyle().Foreground(lipgloss.Color(string(fg))).Render(run)
			}
			b.WriteString(run)
			start = col
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
