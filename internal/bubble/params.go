package bubble

import (
	"fmt"
	"math"
)

// Params holds the ranges and constants for one variant. Lengths are CSS
// pixels and are multiplied by the device pixel ratio when sampled, except
// TopMargin which is in device pixels.
type Params struct {
	Variant Variant `yaml:"-"`

	CountDesktop int `yaml:"count_desktop"`
	CountMobile  int `yaml:"count_mobile"`

	Radius Range `yaml:"radius"`
	Speed  Range `yaml:"speed"`
	// Drift is the full width of the horizontal velocity range centred on 0.
	Drift float64 `yaml:"drift"`
	// InitialY is the seeding band as fractions of the surface height.
	InitialY Range `yaml:"initial_y"`
	// SpawnBand is the depth below the bottom edge, as a fraction of the
	// height, that recycled bubbles enter from.
	SpawnBand    float64 `yaml:"spawn_band"`
	TopMargin    float64 `yaml:"top_margin"`
	RecycleSides bool    `yaml:"recycle_sides"`
	FillViewport bool    `yaml:"fill_viewport"`

	Depth       Range   `yaml:"depth"`
	BobSpeed    Range   `yaml:"bob_speed"`
	BobDist     float64 `yaml:"bob_dist"`
	ParallaxMax float64 `yaml:"parallax_max"`
	TimeStep    float64 `yaml:"time_step"`
	Smoothing   float64 `yaml:"smoothing"`

	Highlight float64 `yaml:"highlight"`
	EdgeAlpha float64 `yaml:"edge_alpha"`

	PauseWhenHidden      bool `yaml:"pause_when_hidden"`
	RespectReducedMotion bool `yaml:"respect_reduced_motion"`
}

func DefaultParams(v Variant) Params {
	switch v {
	case Element:
		return Params{
			Variant:      Element,
			CountDesktop: 24,
			CountMobile:  24,
			Radius:       Range{10, 26},
			Speed:        Range{0.25, 0.8},
			InitialY:     Range{0.6, 1.1},
			SpawnBand:    0.3,
			TopMargin:    20,
			Highlight:    0.3,
			EdgeAlpha:    0.02,
		}
	case Parallax:
		return Params{
			Variant:              Parallax,
			CountDesktop:         48,
			CountMobile:          28,
			Radius:               Range{10, 28},
			InitialY:             Range{0, 1},
			FillViewport:         true,
			Depth:                Range{0.5, 1.4},
			BobSpeed:             Range{0.2, 0.6},
			BobDist:              6,
			ParallaxMax:          30,
			TimeStep:             0.016,
			Smoothing:            0.07,
			Highlight:            0.35,
			EdgeAlpha:            0.02,
			PauseWhenHidden:      true,
			RespectReducedMotion: true,
		}
	default:
		return Params{
			Variant:         Fullscreen,
			CountDesktop:    42,
			CountMobile:     22,
			Radius:          Range{10, 36},
			Speed:           Range{0.25, 1.05},
			Drift:           0.15,
			InitialY:        Range{1, 1.3},
			SpawnBand:       0.3,
			TopMargin:       20,
			RecycleSides:    true,
			FillViewport:    true,
			Highlight:       0.3,
			EdgeAlpha:       0.03,
			PauseWhenHidden: true,
		}
	}
}

// Count returns the particle count for a device class.
func (p Params) Count(c DeviceClass) int {
	if c == Mobile {
		return p.CountMobile
	}
	return p.CountDesktop
}

func (p Params) Validate() error {
	if p.Variant < Element || p.Variant > Parallax {
		return fmt.Errorf("%w: variant %d", ErrUnknownVariant, int(p.Variant))
	}
	if p.CountDesktop < 0 || p.CountMobile < 0 {
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidParams)
	}
	if err := checkRange("radius", p.Radius); err != nil {
		return err
	}
	if p.Radius.Min <= 0 {
		return fmt.Errorf("%w: radius min must be positive, got %g", ErrInvalidParams, p.Radius.Min)
	}
	if p.Highlight < 0 || p.Highlight >= 1 {
		return fmt.Errorf("%w: highlight must be in [0,1), got %g", ErrInvalidParams, p.Highlight)
	}
	if p.EdgeAlpha < 0 || p.EdgeAlpha > 1 {
		return fmt.Errorf("%w: edge alpha must be in [0,1], got %g", ErrInvalidParams, p.EdgeAlpha)
	}

	if p.Variant == Parallax {
		if err := checkRange("depth", p.Depth); err != nil {
			return err
		}
		if p.Depth.Min <= 0 {
			return fmt.Errorf("%w: depth min must be positive, got %g", ErrInvalidParams, p.Depth.Min)
		}
		if err := checkRange("bob speed", p.BobSpeed); err != nil {
			return err
		}
		if p.Smoothing <= 0 || p.Smoothing > 1 {
			return fmt.Errorf("%w: smoothing must be in (0,1], got %g", ErrInvalidParams, p.Smoothing)
		}
		if p.TimeStep < 0 {
			return fmt.Errorf("%w: time step must not be negative", ErrInvalidParams)
		}
		return nil
	}

	if err := checkRange("speed", p.Speed); err != nil {
		return err
	}
	if p.Speed.Min < 0 {
		return fmt.Errorf("%w: speed must not be negative", ErrInvalidParams)
	}
	if err := checkRange("initial y", p.InitialY); err != nil {
		return err
	}
	if p.SpawnBand < 0 || p.Drift < 0 || p.TopMargin < 0 {
		return fmt.Errorf("%w: spawn band, drift and top margin must not be negative", ErrInvalidParams)
	}
	return nil
}

func checkRange(name string, r Range) error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("%w: %s range is not finite", ErrInvalidParams, name)
	}
	if r.Max < r.Min {
		return fmt.Errorf("%w: %s max %g below min %g", ErrInvalidParams, name, r.Max, r.Min)
	}
	return nil
}
