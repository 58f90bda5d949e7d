package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/san-kum/neonbubbles/internal/bubble"
	"github.com/san-kum/neonbubbles/internal/metrics"
)

// Runner drives one animator headlessly through a frame queue.
type Runner struct {
	params    bubble.Params
	env       bubble.StaticEnvironment
	width     float64
	height    float64
	renderer  bubble.Renderer
	observers []bubble.Observer
	metrics   func() []metrics.Metric
	log       *slog.Logger
}

type Option func(*Runner)

func WithRenderer(r bubble.Renderer) Option {
	return func(s *Runner) { s.renderer = r }
}

func WithObserver(o bubble.Observer) Option {
	return func(s *Runner) { s.observers = append(s.observers, o) }
}

// WithMetrics replaces the standard metric set. The factory is called once
// per run so runs never share accumulators.
func WithMetrics(f func() []metrics.Metric) Option {
	return func(s *Runner) { s.metrics = f }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Runner) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a runner for a CSS viewport of width x height.
func New(p bubble.Params, env bubble.StaticEnvironment, width, height float64, opts ...Option) *Runner {
	r := &Runner{
		params:  p,
		env:     env,
		width:   width,
		height:  height,
		metrics: func() []metrics.Metric { return metrics.Standard(p) },
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	events := make([]Event, len(cfg.Events))
	copy(events, cfg.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Frame < events[j].Frame })

	env := r.env
	surface := bubble.NewStaticSurface(r.width, r.height)
	queue := bubble.NewFrameQueue()
	rec := &recorder{track: cfg.Track, samples: make([]FrameSample, 0, cfg.Frames)}
	ms := r.metrics()

	opts := []bubble.Option{
		bubble.WithEnvironment(&env),
		bubble.WithScheduler(queue),
		bubble.WithSeed(cfg.Seed),
		bubble.WithLogger(r.log),
		bubble.WithObserver(rec),
	}
	if r.renderer != nil {
		opts = append(opts, bubble.WithRenderer(r.renderer))
	}
	for _, m := range ms {
		m.Reset()
		opts = append(opts, bubble.WithObserver(m))
	}
	for _, o := range r.observers {
		opts = append(opts, bubble.WithObserver(o))
	}

	anim, err := bubble.New(surface, r.params, opts...)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Variant: r.params.Variant,
		Metrics: make(map[string]float64),
		Events:  events,
	}

	anim.Start()
	next := 0
	for tick := 1; tick <= cfg.Frames; tick++ {
		select {
		case <-ctx.Done():
			r.finish(result, anim, rec, ms)
			return result, ctx.Err()
		default:
		}

		for next < len(events) && events[next].Frame == tick {
			r.apply(anim, surface, &env, events[next])
			next++
		}

		rec.tick = tick
		queue.Fire()
		result.Ticks++
	}

	r.finish(result, anim, rec, ms)
	r.log.Debug("run finished", "ticks", result.Ticks, "frames", len(result.Samples))
	return result, nil
}

func (r *Runner) finish(result *Result, anim *bubble.Animator, rec *recorder, ms []metrics.Metric) {
	result.Samples = rec.samples
	result.Seeds = anim.Seeds()
	result.Final = anim.Sprites()
	for _, m := range ms {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (r *Runner) apply(anim *bubble.Animator, surface *bubble.StaticSurface, env *bubble.StaticEnvironment, ev Event) {
	r.log.Debug("event", "frame", ev.Frame, "kind", ev.Kind.String())
	switch ev.Kind {
	case Pointer:
		anim.PointerMove(ev.A, ev.B)
	case Tilt:
		anim.Tilt(ev.A, ev.B)
	case Hide:
		anim.SetVisible(false)
	case Show:
		anim.SetVisible(true)
	case Resize:
		surface.SetSize(ev.A, ev.B)
		anim.Resize()
	case DPR:
		env.DPR = ev.A
		anim.Resize()
	case Stop:
		anim.Stop()
	case Start:
		anim.Start()
	}
}

func (r *Runner) validateConfig(cfg Config) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.Track < 0 {
		return fmt.Errorf("track index must not be negative, got %d", cfg.Track)
	}
	if r.width < 0 || r.height < 0 {
		return fmt.Errorf("viewport must not be negative, got %.0fx%.0f", r.width, r.height)
	}
	for _, ev := range cfg.Events {
		if ev.Frame < 1 {
			return fmt.Errorf("event %s at frame %d: frames start at 1", ev.Kind, ev.Frame)
		}
	}
	return nil
}

// recorder flattens every drawn frame into a sample.
type recorder struct {
	tick    int
	track   int
	samples []FrameSample
}

func (c *recorder) OnFrame(info bubble.FrameInfo) {
	s := FrameSample{
		Tick:      c.tick,
		Frame:     info.Frame,
		Width:     info.Width,
		Height:    info.Height,
		Particles: info.Particles,
		Recycled:  info.Recycled,
		OffsetX:   info.Offset.X,
		OffsetY:   info.Offset.Y,
		TargetX:   info.Target.X,
		TargetY:   info.Target.Y,
	}
	if n := len(info.Sprites); n > 0 {
		sum := 0.0
		for _, sp := range info.Sprites {
			sum += sp.Y
		}
		s.MeanY = sum / float64(n)
		if c.track < n {
			t := info.Sprites[c.track]
			s.TrackX, s.TrackY, s.TrackR = t.X, t.Y, t.R
		}
	}
	c.samples = append(c.samples, s)
}
