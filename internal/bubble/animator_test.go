package bubble

import (
	"math"
	"testing"
)

type countingRenderer struct {
	calls   int
	sprites int
	w, h    int
}

func (r *countingRenderer) Render(w, h int, sprites []Sprite) {
	r.calls++
	r.sprites += len(sprites)
	r.w, r.h = w, h
}

func newTestAnimator(t *testing.T, v Variant, w, h float64, env StaticEnvironment) (*Animator, *FrameQueue, *StaticSurface, *countingRenderer) {
	t.Helper()
	surface := NewStaticSurface(w, h)
	queue := NewFrameQueue()
	rend := &countingRenderer{}
	a, err := New(surface, DefaultParams(v),
		WithEnvironment(env),
		WithScheduler(queue),
		WithRenderer(rend),
		WithSeed(42),
	)
	if err != nil {
		t.Fatalf("new animator: %v", err)
	}
	return a, queue, surface, rend
}

func TestFullscreenSeedScenario(t *testing.T) {
	a, _, surface, _ := newTestAnimator(t, Fullscreen, 800, 600, StaticEnvironment{DPR: 1, Class: Desktop})
	a.Start()

	ps := a.Particles()
	if len(ps) != 42 {
		t.Fatalf("expected 42 particles, got %d", len(ps))
	}
	for i, p := range ps {
		if p.R < 10 || p.R > 36 {
			t.Errorf("particle %d: radius %.2f outside [10,36]", i, p.R)
		}
		if p.Y < 600 || p.Y > 780 {
			t.Errorf("particle %d: y %.2f outside [600,780]", i, p.Y)
		}
	}
	if surface.BackingW != 800 || surface.BackingH != 600 {
		t.Errorf("expected backing 800x600, got %dx%d", surface.BackingW, surface.BackingH)
	}
	if !surface.Pinned {
		t.Error("fullscreen surface should be pinned to the viewport")
	}
}

func TestSeedCountByDeviceClass(t *testing.T) {
	tests := []struct {
		variant Variant
		class   DeviceClass
		want    int
	}{
		{Element, Desktop, 24},
		{Element, Mobile, 24},
		{Fullscreen, Desktop, 42},
		{Fullscreen, Mobile, 22},
		{Parallax, Desktop, 48},
		{Parallax, Mobile, 28},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String()+"/"+tt.class.String(), func(t *testing.T) {
			a, _, _, _ := newTestAnimator(t, tt.variant, 320, 240, StaticEnvironment{DPR: 1, Class: tt.class})
			a.Start()
			if got := len(a.Particles()); got != tt.want {
				t.Errorf("expected %d particles, got %d", tt.want, got)
			}
		})
	}
}

type switchEnv struct {
	StaticEnvironment
}

func TestReseedDropsStaleParticles(t *testing.T) {
	env := &switchEnv{StaticEnvironment{DPR: 1, Class: Desktop}}
	surface := NewStaticSurface(800, 600)
	a, err := New(surface, DefaultParams(Fullscreen), WithEnvironment(env), WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	a.Start()
	if len(a.Particles()) != 42 {
		t.Fatalf("expected 42 particles, got %d", len(a.Particles()))
	}

	env.Class = Mobile
	surface.SetSize(400, 300)
	a.Resize()
	ps := a.Particles()
	if len(ps) != 22 {
		t.Fatalf("expected 22 particles after reseed, got %d", len(ps))
	}
	for i, p := range ps {
		if p.X < 0 || p.X >= 400 {
			t.Errorf("particle %d: x %.2f outside new bounds", i, p.X)
		}
		if p.Y < 300 || p.Y >= 390 {
			t.Errorf("particle %d: y %.2f outside new seeding band", i, p.Y)
		}
	}
}

func TestDevicePixelRatioScaling(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		dpr     float64
		cssW    float64
		cssH    float64
		wantW   int
		wantH   int
	}{
		{"element floors", Element, 1.5, 101, 51, 151, 76},
		{"viewport rounds", Fullscreen, 1.5, 101, 51, 152, 77},
		{"ratio below one clamps", Fullscreen, 0.5, 200, 100, 200, 100},
		{"zero ratio clamps", Parallax, 0, 200, 100, 200, 100},
		{"degenerate size", Fullscreen, 2, 0, -5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, surface, _ := newTestAnimator(t, tt.variant, tt.cssW, tt.cssH, StaticEnvironment{DPR: tt.dpr})
			a.Start()
			if surface.BackingW != tt.wantW || surface.BackingH != tt.wantH {
				t.Errorf("expected %dx%d, got %dx%d", tt.wantW, tt.wantH, surface.BackingW, surface.BackingH)
			}
		})
	}
}

func TestRadiusScalesWithRatio(t *testing.T) {
	a, _, _, _ := newTestAnimator(t, Element, 300, 200, StaticEnvironment{DPR: 2})
	a.Start()
	for i, p := range a.Particles() {
		if p.R < 20 || p.R >= 52 {
			t.Errorf("particle %d: radius %.2f outside [20,52)", i, p.R)
		}
		if p.VY < 0.5 || p.VY >= 1.6 {
			t.Errorf("particle %d: vy %.2f outside [0.5,1.6)", i, p.VY)
		}
	}
}

func TestRecycleEntersFromBottom(t *testing.T) {
	for _, v := range []Variant{Element, Fullscreen} {
		t.Run(v.String(), func(t *testing.T) {
			a, queue, _, _ := newTestAnimator(t, v, 200, 100, StaticEnvironment{DPR: 1})
			a.Start()

			w, h := 200.0, 100.0
			for frame := 0; frame < 2000; frame++ {
				before := a.Particles()
				queue.Fire()
				after := a.Particles()
				for i := range after {
					prev := before[i]
					moved := prev
					moved.Y -= prev.VY
					moved.X += prev.VX
					if !a.exited(&moved, w) {
						continue
					}
					p := after[i]
					if p.Y < h || p.Y >= h*1.3 {
						t.Fatalf("frame %d particle %d: recycled y %.2f outside [%.0f,%.0f)", frame, i, p.Y, h, h*1.3)
					}
					if p.X < 0 || p.X >= w {
						t.Fatalf("frame %d particle %d: recycled x %.2f outside [0,%.0f)", frame, i, p.X, w)
					}
					if p.R <= 0 {
						t.Fatalf("frame %d particle %d: radius %.2f", frame, i, p.R)
					}
					if p.Tint < 0 || p.Tint >= 1 {
						t.Fatalf("frame %d particle %d: tint %.2f", frame, i, p.Tint)
					}
				}
			}
			if a.Recycles() == 0 {
				t.Error("expected at least one recycle in 2000 frames")
			}
		})
	}
}

func TestParticlesStayInRecyclingBounds(t *testing.T) {
	a, queue, _, _ := newTestAnimator(t, Fullscreen, 300, 200, StaticEnvironment{DPR: 1})
	a.Start()
	margin := a.Params().TopMargin
	for frame := 0; frame < 1500; frame++ {
		queue.Fire()
		for i, p := range a.Particles() {
			if p.R <= 0 {
				t.Fatalf("particle %d: radius %.2f", i, p.R)
			}
			if p.Y+p.R < -margin {
				t.Fatalf("particle %d above recycling bound: y=%.2f r=%.2f", i, p.Y, p.R)
			}
			if p.X < -p.R || p.X > 300+p.R {
				t.Fatalf("particle %d beyond side bound: x=%.2f r=%.2f", i, p.X, p.R)
			}
		}
	}
}

func TestTintFixedWhileAlive(t *testing.T) {
	a, queue, _, _ := newTestAnimator(t, Element, 200, 400, StaticEnvironment{DPR: 1})
	a.Start()
	before := a.Particles()
	queue.Fire()
	after := a.Particles()
	for i := range after {
		if after[i].Y > before[i].Y {
			continue
		}
		if after[i].Tint != before[i].Tint {
			t.Errorf("particle %d: tint changed from %.3f to %.3f without recycle", i, before[i].Tint, after[i].Tint)
		}
	}
}

func TestSmoothingApproachesTarget(t *testing.T) {
	a, queue, _, _ := newTestAnimator(t, Parallax, 800, 600, StaticEnvironment{DPR: 1})
	a.Start()
	a.PointerMove(800, 0)

	want := Vec2{X: 15, Y: -15}
	if a.Target() != want {
		t.Fatalf("expected target %+v, got %+v", want, a.Target())
	}

	prev := a.Offset().Sub(a.Target()).Len()
	for i := 0; i < 60; i++ {
		queue.Fire()
		d := a.Offset().Sub(a.Target()).Len()
		if !(d < prev) {
			t.Fatalf("frame %d: distance %.6f did not decrease from %.6f", i, d, prev)
		}
		prev = d
	}
	if prev > 0.1*want.Len() {
		t.Errorf("offset still %.3f from target after 60 frames", prev)
	}
}

func TestSmoothingFactor(t *testing.T) {
	a, _, _, _ := newTestAnimator(t, Parallax, 100, 100, StaticEnvironment{DPR: 1})
	a.Start()
	a.PointerMove(100, 100)
	a.Tick()
	got := a.Offset()
	want := 15 * 0.07
	if math.Abs(got.X-want) > 1e-9 || math.Abs(got.Y-want) > 1e-9 {
		t.Errorf("expected offset (%.4f,%.4f), got (%.4f,%.4f)", want, want, got.X, got.Y)
	}
}

func TestTilt(t *testing.T) {
	tests := []struct {
		name        string
		gamma, beta float64
		want        Vec2
	}{
		{"level", 0, 45, Vec2{0, 0}},
		{"clamped", 90, 120, Vec2{15, 15}},
		{"negative", -15, 15, Vec2{-7.5, -15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, _, _ := newTestAnimator(t, Parallax, 100, 100, StaticEnvironment{DPR: 1})
			a.Tilt(tt.gamma, tt.beta)
			if got := a.Target(); math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestMissingTiltIgnored(t *testing.T) {
	a, _, _, _ := newTestAnimator(t, Parallax, 100, 100, StaticEnvironment{DPR: 1})
	a.PointerMove(75, 25)
	before := a.Target()
	a.Tilt(math.NaN(), 10)
	if a.Target() != before {
		t.Errorf("NaN tilt changed target from %+v to %+v", before, a.Target())
	}
}

func TestPointerIgnoredOutsideParallax(t *testing.T) {
	a, _, _, _ := newTestAnimator(t, Fullscreen, 100, 100, StaticEnvironment{DPR: 1})
	a.Start()
	a.PointerMove(100, 100)
	a.Tilt(30, 75)
	if a.Target() != (Vec2{}) {
		t.Errorf("fullscreen animator should ignore pointer input, target %+v", a.Target())
	}
}

func TestParallaxSpritePosition(t *testing.T) {
	a, _, _, _ := newTestAnimator(t, Parallax, 400, 300, StaticEnvironment{DPR: 2})
	a.Start()
	a.PointerMove(400, 300)
	a.Tick()

	ps := a.Particles()
	ss := a.Sprites()
	if len(ss) != len(ps) {
		t.Fatalf("expected %d sprites, got %d", len(ps), len(ss))
	}
	off := a.Offset()
	tm := a.Params().TimeStep
	for i, p := range ps {
		bob := math.Sin(tm*p.Speed+p.Phase) * 6 * 2
		wantX := p.X + off.X*p.Depth*2
		wantY := p.Y + off.Y*p.Depth*2 + bob
		if math.Abs(ss[i].X-wantX) > 1e-9 || math.Abs(ss[i].Y-wantY) > 1e-9 {
			t.Fatalf("sprite %d at (%.3f,%.3f), expected (%.3f,%.3f)", i, ss[i].X, ss[i].Y, wantX, wantY)
		}
		if ss[i].Highlight != 0.35 {
			t.Fatalf("sprite %d: highlight %.2f", i, ss[i].Highlight)
		}
	}
}

func TestParallaxRadiusScalesWithDepth(t *testing.T) {
	a, _, _, _ := newTestAnimator(t, Parallax, 400, 300, StaticEnvironment{DPR: 1})
	a.Start()
	for i, p := range a.Particles() {
		if p.Depth < 0.5 || p.Depth >= 1.4 {
			t.Errorf("particle %d: depth %.3f", i, p.Depth)
		}
		base := p.R / p.Depth
		if base < 10-1e-9 || base >= 28 {
			t.Errorf("particle %d: base radius %.3f outside [10,28)", i, base)
		}
		if p.Y < 0 || p.Y >= 300 {
			t.Errorf("particle %d: y %.3f outside [0,300)", i, p.Y)
		}
	}
}

func TestReducedMotionDisablesParallax(t *testing.T) {
	a, queue, _, rend := newTestAnimator(t, Parallax, 800, 600, StaticEnvironment{DPR: 1, Reduced: true})
	if !a.Disabled() {
		t.Fatal("expected animator to be disabled")
	}
	a.Start()
	a.PointerMove(10, 10)
	a.Resize()
	a.SetVisible(false)
	a.SetVisible(true)
	a.Tick()
	queue.Fire()

	if queue.Pending() != 0 || queue.Fired() != 0 {
		t.Errorf("expected no frames, pending=%d fired=%d", queue.Pending(), queue.Fired())
	}
	if rend.calls != 0 {
		t.Errorf("expected zero draw calls, got %d", rend.calls)
	}
	if len(a.Particles()) != 0 {
		t.Errorf("expected no particles, got %d", len(a.Particles()))
	}
}

func TestReducedMotionIgnoredByFullscreen(t *testing.T) {
	a, queue, _, rend := newTestAnimator(t, Fullscreen, 800, 600, StaticEnvironment{DPR: 1, Reduced: true})
	a.Start()
	queue.Fire()
	if rend.calls != 1 {
		t.Errorf("expected one draw, got %d", rend.calls)
	}
}

func TestHideShowKeepsSingleLoop(t *testing.T) {
	for _, v := range []Variant{Fullscreen, Parallax} {
		t.Run(v.String(), func(t *testing.T) {
			a, queue, _, rend := newTestAnimator(t, v, 320, 240, StaticEnvironment{DPR: 1})
			a.Start()
			queue.Fire()

			a.SetVisible(false)
			if queue.Pending() != 0 {
				t.Fatalf("expected no pending frames while hidden, got %d", queue.Pending())
			}
			calls := rend.calls
			queue.Fire()
			if rend.calls != calls {
				t.Fatal("rendered while hidden")
			}

			a.SetVisible(true)
			a.SetVisible(true)
			if queue.Pending() != 1 {
				t.Fatalf("expected exactly one pending frame, got %d", queue.Pending())
			}
			for i := 0; i < 5; i++ {
				if n := queue.Fire(); n != 1 {
					t.Fatalf("fire %d ran %d callbacks", i, n)
				}
			}
		})
	}
}

func TestShowWithoutHideRestarts(t *testing.T) {
	for _, v := range []Variant{Fullscreen, Parallax} {
		t.Run(v.String(), func(t *testing.T) {
			a, queue, _, _ := newTestAnimator(t, v, 320, 240, StaticEnvironment{DPR: 1})
			a.Start()
			queue.Fire()
			queue.Fire()

			a.SetVisible(true)
			if a.Seeds() != 2 {
				t.Errorf("expected a reseed on show, got %d seeds", a.Seeds())
			}
			if queue.Pending() != 1 {
				t.Errorf("expected exactly one pending frame, got %d", queue.Pending())
			}
		})
	}
}

func TestElementIgnoresVisibility(t *testing.T) {
	a, queue, _, _ := newTestAnimator(t, Element, 320, 240, StaticEnvironment{DPR: 1})
	a.Start()
	a.SetVisible(false)
	if queue.Pending() != 1 {
		t.Errorf("element animator should keep running when hidden, pending=%d", queue.Pending())
	}
}

func TestResizeRestartsOnce(t *testing.T) {
	a, queue, surface, _ := newTestAnimator(t, Fullscreen, 320, 240, StaticEnvironment{DPR: 1})
	a.Start()
	for i := 0; i < 3; i++ {
		surface.SetSize(float64(400+i*10), 300)
		a.Resize()
	}
	if queue.Pending() != 1 {
		t.Fatalf("expected one pending frame, got %d", queue.Pending())
	}
	if w, _ := a.Size(); w != 420 {
		t.Errorf("expected width 420, got %d", w)
	}
	if a.Seeds() != 4 {
		t.Errorf("expected 4 seeds, got %d", a.Seeds())
	}
}

func TestResizeWhileHiddenDoesNotSchedule(t *testing.T) {
	a, queue, surface, _ := newTestAnimator(t, Fullscreen, 320, 240, StaticEnvironment{DPR: 1})
	a.Start()
	a.SetVisible(false)
	surface.SetSize(640, 480)
	a.Resize()
	if queue.Pending() != 0 {
		t.Fatalf("expected no pending frame, got %d", queue.Pending())
	}
	if w, h := a.Size(); w != 640 || h != 480 {
		t.Errorf("expected 640x480, got %dx%d", w, h)
	}
	a.SetVisible(true)
	if queue.Pending() != 1 {
		t.Errorf("expected one pending frame after show, got %d", queue.Pending())
	}
}

func TestStop(t *testing.T) {
	a, queue, _, rend := newTestAnimator(t, Element, 320, 240, StaticEnvironment{DPR: 1})
	a.Start()
	queue.Fire()
	a.Stop()
	a.Stop()
	queue.Fire()
	if rend.calls != 1 {
		t.Errorf("expected one draw before stop, got %d", rend.calls)
	}
	a.Resize()
	if queue.Pending() != 0 {
		t.Error("resize must not restart a stopped animator")
	}
	a.SetVisible(true)
	if queue.Pending() != 0 {
		t.Error("show must not restart a stopped animator")
	}
}

type frameLog struct {
	infos []FrameInfo
}

func (l *frameLog) OnFrame(info FrameInfo) {
	info.Sprites = nil
	l.infos = append(l.infos, info)
}

func TestObserverReceivesFrames(t *testing.T) {
	log := &frameLog{}
	surface := NewStaticSurface(200, 100)
	queue := NewFrameQueue()
	a, err := New(surface, DefaultParams(Fullscreen), WithScheduler(queue), WithObserver(log), WithSeed(3))
	if err != nil {
		t.Fatal(err)
	}
	a.Start()
	for i := 0; i < 10; i++ {
		queue.Fire()
	}
	if len(log.infos) != 10 {
		t.Fatalf("expected 10 frames, got %d", len(log.infos))
	}
	for i, info := range log.infos {
		if info.Frame != i+1 {
			t.Errorf("frame %d reported as %d", i+1, info.Frame)
		}
		if info.Particles != 42 || info.Width != 200 || info.Height != 100 {
			t.Errorf("unexpected frame info %+v", info)
		}
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	p := DefaultParams(Fullscreen)
	p.Radius = Range{0, 10}
	if _, err := New(NewStaticSurface(10, 10), p); err == nil {
		t.Error("expected error for zero radius")
	}
	if _, err := New(nil, DefaultParams(Element)); err == nil {
		t.Error("expected error for nil surface")
	}
}
