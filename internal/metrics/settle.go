package metrics

import "github.com/san-kum/neonbubbles/internal/bubble"

// DefaultSettleTolerance is the offset distance, in CSS pixels, under which
// the parallax offset counts as settled.
const DefaultSettleTolerance = 0.1

// SettleFrame reports the frame from which the parallax offset stayed within
// tolerance of its target. A target change restarts the count. Until the
// offset settles, Value is -1.
type SettleFrame struct {
	name      string
	tol       float64
	frames    int
	lastOff   int
	lastFrame int
	target    bubble.Vec2
}

func NewSettleFrame(tol float64) *SettleFrame {
	return &SettleFrame{name: "settle_frame", tol: tol}
}

func (s *SettleFrame) Name() string { return s.name }

func (s *SettleFrame) OnFrame(info bubble.FrameInfo) {
	s.frames++
	s.lastFrame = info.Frame
	if info.Target != s.target {
		s.target = info.Target
		s.lastOff = info.Frame
	}
	if info.Target.Sub(info.Offset).Len() >= s.tol {
		s.lastOff = info.Frame
	}
}

// Settled reports whether the last observed frame was within tolerance.
func (s *SettleFrame) Settled() bool {
	return s.frames > 0 && s.lastOff < s.lastFrame
}

func (s *SettleFrame) Value() float64 {
	if s.frames == 0 {
		return -1
	}
	if !s.Settled() {
		return -1
	}
	return float64(s.lastOff + 1)
}

func (s *SettleFrame) Reset() {
	s.frames = 0
	s.lastOff = 0
	s.lastFrame = 0
	s.target = bubble.Vec2{}
}
