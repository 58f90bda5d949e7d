package viz

import "github.com/san-kum/neonbubbles/internal/bubble"

// A terminal cell stands in for an 8x16 CSS pixel block, which maps each
// braille dot to 4x4 CSS pixels.
const (
	cellW = 8
	cellH = 16
)

// termSurface exposes the canvas area as a CSS viewport.
type termSurface struct {
	cols, rows int
	backingW   int
	backingH   int
}

func (s *termSurface) Size() (float64, float64) {
	return float64(s.cols * cellW), float64(s.rows * cellH)
}

func (s *termSurface) SetBackingSize(w, h int) {
	s.backingW, s.backingH = w, h
}

// canvasRenderer draws each sprite as a braille ring with a highlight dot.
type canvasRenderer struct {
	canvas *Canvas
}

func (r canvasRenderer) Render(w, h int, sprites []bubble.Sprite) {
	r.canvas.Clear()
	if w <= 0 || h <= 0 {
		return
	}
	dw, dh := r.canvas.Dots()
	sx := float64(dw) / float64(w)
	sy := float64(dh) / float64(h)

	for _, s := range sprites {
		ink := InkPrimary
		if s.Secondary() {
			ink = InkSecondary
		}
		cx, cy := int(s.X*sx), int(s.Y*sy)
		rad := int(s.R*sx + 0.5)
		r.canvas.Circle(cx, cy, rad, ink)
		if rad >= 2 {
			hx := int((s.X - s.R*s.Highlight) * sx)
			hy := int((s.Y - s.R*s.Highlight) * sy)
			r.canvas.SetInk(hx, hy, InkHighlight)
		}
	}
}
