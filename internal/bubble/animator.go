package bubble

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// Animator owns one particle set and its frame loop.
type Animator struct {
	params    Params
	surface   Surface
	env       Environment
	sched     Scheduler
	renderer  Renderer
	rng       *rand.Rand
	log       *slog.Logger
	observers []Observer

	particles []Particle
	sprites   []Sprite
	w, h      int
	dpr       float64

	frame    FrameID
	running  bool
	hidden   bool
	disabled bool

	t      float64
	target Vec2
	offset Vec2

	frames   int
	recycles int
	seeds    int
}

type Option func(*Animator)

func WithEnvironment(env Environment) Option {
	return func(a *Animator) { a.env = env }
}

func WithScheduler(s Scheduler) Option {
	return func(a *Animator) { a.sched = s }
}

func WithRenderer(r Renderer) Option {
	return func(a *Animator) { a.renderer = r }
}

// WithSeed makes the random draws repeatable. Intended for tests and tooling.
func WithSeed(seed int64) Option {
	return func(a *Animator) { a.rng = rand.New(rand.NewSource(seed)) }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Animator) {
		if l != nil {
			a.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(a *Animator) { a.observers = append(a.observers, o) }
}

// New creates an animator for surface. When the variant respects reduced
// motion and the environment asks for it, the animator is created disabled
// and every method is a no-op.
func New(surface Surface, p Params, opts ...Option) (*Animator, error) {
	if surface == nil {
		return nil, fmt.Errorf("bubble: nil surface")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	a := &Animator{
		params:   p,
		surface:  surface,
		env:      StaticEnvironment{DPR: 1},
		renderer: nopRenderer{},
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      slog.New(slog.DiscardHandler),
		dpr:      1,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.sched == nil {
		a.sched = NewFrameQueue()
	}
	a.log = a.log.With("variant", p.Variant.String())

	if p.RespectReducedMotion && a.env.ReducedMotion() {
		a.disabled = true
		a.log.Debug("reduced motion requested, animator disabled")
	}
	return a, nil
}

// Start sizes the surface, seeds the particles and schedules the first frame.
// Any pending frame is cancelled first, so Start doubles as a full restart.
func (a *Animator) Start() {
	if a.disabled {
		return
	}
	a.cancel()
	a.resize()
	a.seed()
	a.running = true
	a.hidden = false
	a.schedule()
	a.log.Debug("started", "width", a.w, "height", a.h, "particles", len(a.particles))
}

// Stop cancels the loop. The particle set is kept until the next Start.
func (a *Animator) Stop() {
	if a.disabled {
		return
	}
	a.cancel()
	a.running = false
	a.hidden = false
}

// Resize resizes the surface and reseeds from scratch. A hidden animator is
// reseeded without scheduling; a stopped one ignores the call.
func (a *Animator) Resize() {
	switch {
	case a.disabled:
		return
	case a.hidden:
		a.resize()
		a.seed()
		a.log.Debug("resized while hidden", "width", a.w, "height", a.h)
	case a.running:
		a.Start()
	}
}

// SetVisible pauses the loop while the page is hidden and restarts it fully
// on every visible event, including one that arrives without a preceding
// hidden event. A stopped animator stays stopped. Variants without
// PauseWhenHidden ignore it.
func (a *Animator) SetVisible(visible bool) {
	if a.disabled || !a.params.PauseWhenHidden {
		return
	}
	if !visible {
		if !a.running {
			return
		}
		a.cancel()
		a.running = false
		a.hidden = true
		a.log.Debug("hidden, loop paused")
		return
	}
	if a.running || a.hidden {
		a.Start()
	}
}

// PointerMove sets the parallax target from client coordinates in CSS pixels.
func (a *Animator) PointerMove(x, y float64) {
	if a.disabled || a.params.Variant != Parallax {
		return
	}
	vw, vh := a.surface.Size()
	if vw <= 0 || vh <= 0 || math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	a.target = Vec2{
		X: (x/vw - 0.5) * a.params.ParallaxMax,
		Y: (y/vh - 0.5) * a.params.ParallaxMax,
	}
}

// Tilt sets the parallax target from device orientation angles in degrees.
// NaN readings mean the sensor gave nothing and are ignored.
func (a *Animator) Tilt(gamma, beta float64) {
	if a.disabled || a.params.Variant != Parallax {
		return
	}
	if math.IsNaN(gamma) || math.IsNaN(beta) {
		return
	}
	nx := clamp(gamma, -30, 30) / 60
	ny := clamp(beta-45, -30, 30) / 60
	a.target = Vec2{X: nx * a.params.ParallaxMax, Y: ny * a.params.ParallaxMax}
}

// Tick advances one frame and renders it without touching the schedule.
func (a *Animator) Tick() {
	if a.disabled {
		return
	}
	recycled := a.step()
	a.recycles += recycled
	a.frames++
	a.renderer.Render(a.w, a.h, a.sprites)

	if len(a.observers) == 0 {
		return
	}
	info := FrameInfo{
		Frame:     a.frames,
		Width:     a.w,
		Height:    a.h,
		DPR:       a.dpr,
		Particles: len(a.particles),
		Recycled:  recycled,
		Offset:    a.offset,
		Target:    a.target,
		Sprites:   a.sprites,
	}
	for _, o := range a.observers {
		o.OnFrame(info)
	}
}

func (a *Animator) onFrame() {
	a.frame = 0
	if !a.running {
		return
	}
	a.Tick()
	if a.running {
		a.schedule()
	}
}

func (a *Animator) schedule() {
	a.frame = a.sched.RequestFrame(a.onFrame)
}

func (a *Animator) cancel() {
	if a.frame != 0 {
		a.sched.CancelFrame(a.frame)
		a.frame = 0
	}
}

// resize reads the environment and sets the backing size. It must run before
// every seed.
func (a *Animator) resize() {
	a.dpr = clampDPR(a.env.DevicePixelRatio())
	cssW, cssH := a.surface.Size()
	a.w, a.h = BackingSize(cssW, cssH, a.dpr, a.params.FillViewport)
	a.surface.SetBackingSize(a.w, a.h)
	if a.params.FillViewport {
		if pin, ok := a.surface.(ViewportPinner); ok {
			pin.PinToViewport()
		}
	}
}

func (a *Animator) Variant() Variant { return a.params.Variant }
func (a *Animator) Params() Params   { return a.params }

// Particles returns a copy of the current particle set.
func (a *Animator) Particles() []Particle {
	out := make([]Particle, len(a.particles))
	copy(out, a.particles)
	return out
}

// Sprites returns a copy of the sprites drawn in the last frame.
func (a *Animator) Sprites() []Sprite {
	out := make([]Sprite, len(a.sprites))
	copy(out, a.sprites)
	return out
}

func (a *Animator) Size() (int, int)          { return a.w, a.h }
func (a *Animator) DevicePixelRatio() float64 { return a.dpr }
func (a *Animator) Offset() Vec2              { return a.offset }
func (a *Animator) Target() Vec2              { return a.target }
func (a *Animator) Running() bool             { return a.running }
func (a *Animator) Hidden() bool              { return a.hidden }
func (a *Animator) Disabled() bool            { return a.disabled }

// Scheduled reports whether a frame callback is pending.
func (a *Animator) Scheduled() bool { return a.frame != 0 }

func (a *Animator) Frames() int   { return a.frames }
func (a *Animator) Recycles() int { return a.recycles }
func (a *Animator) Seeds() int    { return a.seeds }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
