package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/neonbubbles/internal/bubble"
	"github.com/san-kum/neonbubbles/internal/render"
)

// FrameToSVG draws one frame with a radial gradient per bubble, matching the
// canvas rendering: focus circle offset towards the top left, three stops.
func FrameToSVG(width, height int, sprites []bubble.Sprite, pal render.Palette) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, width, height, width, height)

	if bg := pal.Background; bg != nil {
		fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="%s"/>
`, bg.Clamped().Hex())
	}

	sb.WriteString("<defs>\n")
	drawn := make([]bubble.Sprite, 0, len(sprites))
	for _, s := range sprites {
		if s.R <= 0 {
			continue
		}
		g := pal.Gradient(s)
		fmt.Fprintf(&sb, `<radialGradient id="b%d" gradientUnits="userSpaceOnUse" cx="%.2f" cy="%.2f" r="%.2f" fx="%.2f" fy="%.2f" fr="%.2f">
`, len(drawn), g.CX, g.CY, g.R1, g.FX, g.FY, g.R0)
		for _, st := range g.Stops {
			fmt.Fprintf(&sb, `<stop offset="%g" stop-color="%s" stop-opacity="%g"/>
`, st.Offset, st.Hex(), st.Alpha)
		}
		sb.WriteString("</radialGradient>\n")
		drawn = append(drawn, s)
	}
	sb.WriteString("</defs>\n")

	for i, s := range drawn {
		fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="url(#b%d)"/>
`, s.X, s.Y, s.R, i)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG plots a 2D path, e.g. the parallax offset over a run.
// Y grows downwards like screen coordinates.
func TrajectoryToSVG(points []bubble.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
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

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<polyline fill="none" stroke="%s" stroke-width="1.5" points="`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := (p.Y - minY) / rangeY * float64(height)
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
