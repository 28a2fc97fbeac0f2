package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/springsim/internal/dynamo"
)

type Point struct{ X, Y float64 }

// Series is one polyline of a plot.
type Series struct {
	Points []Point
	Stroke string
	Dashed bool
}

// TrajectoryToSVG plots every series on shared axes padded by 10%.
func TrajectoryToSVG(series []Series, width, height int) string {
	var all []Point
	for _, s := range series {
		all = append(all, s.Points...)
	}
	if len(all) < 2 {
		return ""
	}

	minX, maxX := all[0].X, all[0].X
	minY, maxY := all[0].Y, all[0].Y
	for _, p := range all {
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
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, s := range series {
		if len(s.Points) < 2 {
			continue
		}
		dash := ""
		if s.Dashed {
			dash = ` stroke-dasharray="4 3"`
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5"%s d="`, s.Stroke, dash)
		for i, p := range s.Points {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ResultToSVG plots value (solid) and target (dashed) against time.
func ResultToSVG(result *dynamo.Result, width, height int) string {
	value := Series{Stroke: "#00ff88"}
	target := Series{Stroke: "#666666", Dashed: true}
	for i, t := range result.Times {
		if i < len(result.States) && len(result.States[i]) > 0 {
			value.Points = append(value.Points, Point{t, result.States[i][0]})
		}
		if i < len(result.Controls) {
			target.Points = append(target.Points, Point{t, result.Controls[i].Target()})
		}
	}
	return TrajectoryToSVG([]Series{target, value}, width, height)
}
