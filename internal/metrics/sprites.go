package metrics

import (
	"math"

	"github.com/san-kum/neonbubbles/internal/bubble"
)

// MeanRadius averages the drawn radius, in device pixels, over every sprite
// of every frame.
type MeanRadius struct {
	name    string
	sum     float64
	samples int
}

func NewMeanRadius() *MeanRadius {
	return &MeanRadius{name: "mean_radius"}
}

func (m *MeanRadius) Name() string { return m.name }

func (m *MeanRadius) OnFrame(info bubble.FrameInfo) {
	for _, s := range info.Sprites {
		m.sum += s.R
		m.samples++
	}
}

func (m *MeanRadius) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanRadius) Reset() {
	m.sum = 0
	m.samples = 0
}

type DrawCalls struct {
	name  string
	calls int
}

func NewDrawCalls() *DrawCalls {
	return &DrawCalls{name: "draw_calls"}
}

func (d *DrawCalls) Name() string { return d.name }

func (d *DrawCalls) OnFrame(info bubble.FrameInfo) {
	d.calls += len(info.Sprites)
}

func (d *DrawCalls) Value() float64 { return float64(d.calls) }

func (d *DrawCalls) Reset() { d.calls = 0 }

// InBounds is the fraction of frames in which every sprite lies in the area
// a bubble may legally occupy. For the rising variants that is the surface
// widened by the sprite's radius, lifted by the top margin and extended
// below to the deeper of the seeding band and the spawn band. Parallax
// sprites may additionally be displaced by the full bob and parallax travel.
type InBounds struct {
	name       string
	params     bubble.Params
	violations int
	samples    int
}

func NewInBounds(p bubble.Params) *InBounds {
	return &InBounds{name: "in_bounds", params: p}
}

func (b *InBounds) Name() string { return b.name }

func (b *InBounds) OnFrame(info bubble.FrameInfo) {
	b.samples++
	for _, s := range info.Sprites {
		if !b.contains(info, s) {
			b.violations++
			break
		}
	}
}

func (b *InBounds) contains(info bubble.FrameInfo, s bubble.Sprite) bool {
	w, h := float64(info.Width), float64(info.Height)
	dpr := info.DPR
	if dpr <= 0 {
		dpr = 1
	}
	p := b.params

	if p.Variant == bubble.Parallax {
		slack := (p.BobDist + p.ParallaxMax*p.Depth.Max) * dpr
		return s.X >= -slack-s.R && s.X <= w+slack+s.R &&
			s.Y >= p.InitialY.Min*h-slack-s.R && s.Y <= p.InitialY.Max*h+slack+s.R
	}

	bottom := h * math.Max(1+p.SpawnBand, p.InitialY.Max)
	return s.X >= -s.R && s.X <= w+s.R &&
		s.Y >= -p.TopMargin-s.R && s.Y < bottom+s.R
}
func (b *InBounds) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *InBounds) Reset() {
	b.violations = 0
	b.samples = 0
}
