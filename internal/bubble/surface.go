package bubble

import "math"

// Surface is the drawing target being sized.
type Surface interface {
	// Size reports the displayed size in CSS pixels.
	Size() (w, h float64)
	// SetBackingSize sets the pixel dimensions of the backing store.
	SetBackingSize(w, h int)
}

// ViewportPinner is implemented by surfaces that can be pinned to the full
// viewport (100vw × 100vh).
type ViewportPinner interface {
	PinToViewport()
}

// BackingSize converts a CSS size to device pixels. Element surfaces floor,
// viewport surfaces round. Negative or NaN sizes yield zero.
func BackingSize(cssW, cssH, dpr float64, fillViewport bool) (int, int) {
	dpr = clampDPR(dpr)
	conv := math.Floor
	if fillViewport {
		conv = math.Round
	}
	return toPixels(conv(cssW * dpr)), toPixels(conv(cssH * dpr))
}

func clampDPR(dpr float64) float64 {
	if math.IsNaN(dpr) || dpr < 1 {
		return 1
	}
	return dpr
}

func toPixels(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// StaticSurface is an in-memory Surface used by tests, terminals and
// headless runs.
type StaticSurface struct {
	CSSWidth, CSSHeight float64
	BackingW, BackingH  int
	Pinned              bool
}

func NewStaticSurface(w, h float64) *StaticSurface {
	return &StaticSurface{CSSWidth: w, CSSHeight: h}
}

func (s *StaticSurface) Size() (float64, float64) { return s.CSSWidth, s.CSSHeight }

func (s *StaticSurface) SetBackingSize(w, h int) {
	s.BackingW, s.BackingH = w, h
}

func (s *StaticSurface) PinToViewport() { s.Pinned = true }

// SetSize changes the displayed size. Call Animator.Resize afterwards.
func (s *StaticSurface) SetSize(w, h float64) {
	s.CSSWidth, s.CSSHeight = w, h
}
