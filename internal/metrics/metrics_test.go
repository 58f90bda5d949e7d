package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/neonbubbles/internal/bubble"
)

func frame(n, recycled int, radii ...float64) bubble.FrameInfo {
	sprites := make([]bubble.Sprite, len(radii))
	for i, r := range radii {
		sprites[i] = bubble.Sprite{X: 50, Y: 50, R: r}
	}
	return bubble.FrameInfo{Frame: n, Width: 100, Height: 100, Recycled: recycled, Sprites: sprites}
}

func TestRecycleMetrics(t *testing.T) {
	count := NewRecycleCount()
	rate := NewRecycleRate()

	for i, r := range []int{0, 2, 1, 1} {
		f := frame(i+1, r)
		count.OnFrame(f)
		rate.OnFrame(f)
	}

	if count.Value() != 4 {
		t.Errorf("expected 4 recycles, got %f", count.Value())
	}
	if rate.Value() != 1 {
		t.Errorf("expected rate 1, got %f", rate.Value())
	}

	count.Reset()
	rate.Reset()
	if count.Value() != 0 || rate.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMeanRadiusAndDrawCalls(t *testing.T) {
	mean := NewMeanRadius()
	draws := NewDrawCalls()

	for _, f := range []bubble.FrameInfo{frame(1, 0, 10, 20), frame(2, 0, 30)} {
		mean.OnFrame(f)
		draws.OnFrame(f)
	}

	if math.Abs(mean.Value()-20) > 1e-9 {
		t.Errorf("expected mean radius 20, got %f", mean.Value())
	}
	if draws.Value() != 3 {
		t.Errorf("expected 3 draw calls, got %f", draws.Value())
	}
}

func TestInBounds(t *testing.T) {
	b := NewInBounds(bubble.DefaultParams(bubble.Fullscreen))
	if b.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", b.Value())
	}

	b.OnFrame(frame(1, 0, 10))
	far := frame(2, 0, 10)
	far.Sprites[0].X = 1000
	b.OnFrame(far)

	if b.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", b.Value())
	}

	b.Reset()
	if b.Value() != 1 {
		t.Errorf("expected 1 after reset, got %f", b.Value())
	}
}

func TestInBoundsEdges(t *testing.T) {
	rise := bubble.DefaultParams(bubble.Fullscreen)
	parallax := bubble.DefaultParams(bubble.Parallax)

	tests := []struct {
		name   string
		params bubble.Params
		dpr    float64
		sprite bubble.Sprite
		want   bool
	}{
		{"centre", rise, 1, bubble.Sprite{X: 50, Y: 50, R: 10}, true},
		{"left edge overlap", rise, 1, bubble.Sprite{X: -10, Y: 50, R: 10}, true},
		{"left of surface", rise, 1, bubble.Sprite{X: -11, Y: 50, R: 10}, false},
		{"right of surface", rise, 1, bubble.Sprite{X: 111, Y: 50, R: 10}, false},
		{"far left below band", rise, 1, bubble.Sprite{X: -105, Y: 190, R: 10}, false},
		{"inside spawn band", rise, 1, bubble.Sprite{X: 50, Y: 139, R: 10}, true},
		{"below spawn band", rise, 1, bubble.Sprite{X: 50, Y: 141, R: 10}, false},
		{"top margin", rise, 1, bubble.Sprite{X: 50, Y: -30, R: 10}, true},
		{"above top margin", rise, 1, bubble.Sprite{X: 50, Y: -31, R: 10}, false},
		{"element seeding band", bubble.DefaultParams(bubble.Element), 1, bubble.Sprite{X: 50, Y: 135, R: 10}, true},
		{"parallax travel", parallax, 1, bubble.Sprite{X: -55, Y: 50, R: 10}, true},
		{"parallax beyond travel", parallax, 1, bubble.Sprite{X: -59, Y: 50, R: 10}, false},
		{"parallax travel scales with dpr", parallax, 2, bubble.Sprite{X: -100, Y: 50, R: 10}, true},
		{"parallax below", parallax, 1, bubble.Sprite{X: 50, Y: 159, R: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewInBounds(tt.params)
			b.OnFrame(bubble.FrameInfo{Width: 100, Height: 100, DPR: tt.dpr, Sprites: []bubble.Sprite{tt.sprite}})
			if got := b.Value() == 1; got != tt.want {
				t.Errorf("in bounds = %v, want %v (value %f)", got, tt.want, b.Value())
			}
		})
	}
}

func TestSettleFrame(t *testing.T) {
	s := NewSettleFrame(0.5)
	if s.Value() != -1 {
		t.Errorf("expected -1 before any frame, got %f", s.Value())
	}

	target := bubble.Vec2{X: 10}
	offsets := []float64{0.7, 4, 7, 9.6, 9.8, 9.9}
	for i, x := range offsets {
		s.OnFrame(bubble.FrameInfo{Frame: i + 1, Target: target, Offset: bubble.Vec2{X: x}})
	}

	if !s.Settled() {
		t.Fatal("expected offset to be settled")
	}
	if s.Value() != 4 {
		t.Errorf("expected settle frame 4, got %f", s.Value())
	}

	s.OnFrame(bubble.FrameInfo{Frame: 7, Target: bubble.Vec2{X: -10}, Offset: bubble.Vec2{X: 9}})
	if s.Settled() {
		t.Error("target change should unsettle the offset")
	}
	if s.Value() != -1 {
		t.Errorf("expected -1 while unsettled, got %f", s.Value())
	}
}

func TestStandardNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Standard(bubble.DefaultParams(bubble.Element)) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %q", m.Name())
		}
		seen[m.Name()] = true
	}
}

func TestNamesMatchStandard(t *testing.T) {
	names := Names()
	std := Standard(bubble.DefaultParams(bubble.Parallax))
	if len(names) != len(std) {
		t.Fatalf("expected %d names, got %d", len(std), len(names))
	}
	for i, m := range std {
		if names[i] != m.Name() {
			t.Errorf("name %d: expected %q, got %q", i, m.Name(), names[i])
		}
	}
}
