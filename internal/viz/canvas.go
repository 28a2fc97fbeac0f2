package viz

import (
	"fmt"
	"strings"
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

const brailleBlank = 0x2800

// Canvas is a grid of braille cells; each cell holds 2x4 dots, so the dot
// resolution is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the dot resolution of the canvas.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, rune(pixelMap[y%4][x%2]), true
}

// Set lights the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] &^= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	row, col, bit, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&bit != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

// DrawBlob fills a (2r+1)-wide square centred on (x, y).
func (c *Canvas) DrawBlob(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

// DrawCross draws a + marker with arms of length r.
func (c *Canvas) DrawCross(x, y, r int) {
	c.DrawLine(x-r, y, x+r, y)
	c.DrawLine(x, y-r, x, y+r)
}

// Project maps unit coordinates in [0,1]² to dots; y grows downwards.
func (c *Canvas) Project(ux, uy float64) (int, int) {
	w, h := c.Dots()
	return int(ux * float64(w-1)), int(uy * float64(h-1))
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// SVG renders every lit dot as a circle, scale pixels apart.
func (c *Canvas) SVG(scale float64, fg, bg string) string {
	w, h := c.Dots()
	width, height := float64(w)*scale, float64(h)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, bg, fg)

	r := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
			}
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
