package metrics

import "github.com/san-kum/neonbubbles/internal/bubble"

type RecycleCount struct {
	name  string
	count int
}

func NewRecycleCount() *RecycleCount {
	return &RecycleCount{name: "recycles"}
}

func (r *RecycleCount) Name() string { return r.name }

func (r *RecycleCount) OnFrame(info bubble.FrameInfo) {
	r.count += info.Recycled
}

func (r *RecycleCount) Value() float64 { return float64(r.count) }

func (r *RecycleCount) Reset() { r.count = 0 }

// RecycleRate is recycles per frame.
type RecycleRate struct {
	name     string
	recycled int
	frames   int
}

func NewRecycleRate() *RecycleRate {
	return &RecycleRate{name: "recycle_rate"}
}

func (r *RecycleRate) Name() string { return r.name }

func (r *RecycleRate) OnFrame(info bubble.FrameInfo) {
	r.recycled += info.Recycled
	r.frames++
}

func (r *RecycleRate) Value() float64 {
	if r.frames == 0 {
		return 0
	}
	return float64(r.recycled) / float64(r.frames)
}

func (r *RecycleRate) Reset() {
	r.recycled = 0
	r.frames = 0
}
