package analysis

import (
	"strings"

	"github.com/san-kum/springsim/internal/dynamo"
)

// PhasePortrait2D holds the (value - target, velocity) trajectory of a run.
type PhasePortrait2D struct {
	Points []struct{ X, Y float64 }
}

// PhasePortrait plots each sample's offset from its target against velocity,
// so every segment of a scripted run spirals into the origin.
func PhasePortrait(result *dynamo.Result) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		Points: make([]struct{ X, Y float64 }, 0, len(result.States)),
	}
	for i, x := range result.States {
		if len(x) < 2 {
			continue
		}
		target := 0.0
		if i < len(result.Controls) {
			target = result.Controls[i].Target()
		}
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{x[0] - target, x[1]})
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// Axes first so samples draw over them.
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
