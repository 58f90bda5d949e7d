package render

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/neonbubbles/internal/bubble"
)

// Palette holds the two bubble themes and the highlight.
type Palette struct {
	Highlight colorful.Color
	Primary   colorful.Color
	Secondary colorful.Color
	// Background is painted under the bubbles; nil keeps the surface
	// transparent.
	Background *colorful.Color

	HighlightAlpha float64
	MidAlpha       float64
}

func DefaultPalette() Palette {
	return Palette{
		Highlight:      colorful.Color{R: 1, G: 1, B: 1},
		Primary:        mustHex("#21c7d9"),
		Secondary:      mustHex("#ff4fa3"),
		HighlightAlpha: 0.35,
		MidAlpha:       0.55,
	}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Theme returns the colour a sprite's tint selects.
func (p Palette) Theme(s bubble.Sprite) colorful.Color {
	if s.Secondary() {
		return p.Secondary
	}
	return p.Primary
}

type Stop struct {
	Offset float64
	Color  colorful.Color
	Alpha  float64
}

// CSS formats the stop colour as a canvas/SVG rgba() string.
func (s Stop) CSS() string {
	r, g, b := s.Color.Clamped().RGB255()
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, formatAlpha(s.Alpha))
}

func (s Stop) Hex() string { return s.Color.Clamped().Hex() }

func (s Stop) RGBA() gg.RGBA {
	c := s.Color.Clamped()
	return gg.RGBA2(c.R, c.G, c.B, s.Alpha)
}

func formatAlpha(a float64) string {
	return fmt.Sprintf("%g", float64(int(a*1000+0.5))/1000)
}

// Gradient is a two-circle radial gradient: a one pixel focus circle offset
// up and to the left, and the bubble's own circle.
type Gradient struct {
	FX, FY, R0 float64
	CX, CY, R1 float64
	Stops      [3]Stop
}

func (p Palette) Gradient(s bubble.Sprite) Gradient {
	theme := p.Theme(s)
	return Gradient{
		FX: s.X - s.R*s.Highlight,
		FY: s.Y - s.R*s.Highlight,
		R0: 1,
		CX: s.X,
		CY: s.Y,
		R1: s.R,
		Stops: [3]Stop{
			{Offset: 0, Color: p.Highlight, Alpha: p.HighlightAlpha},
			{Offset: 0.5, Color: theme, Alpha: p.MidAlpha},
			{Offset: 1, Color: theme, Alpha: s.EdgeAlpha},
		},
	}
}
