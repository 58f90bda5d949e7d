package config

import (
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/neonbubbles/internal/bubble"
)

const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
	DefaultDPR    = 1.0
	DefaultFrames = 600
	DefaultFPS    = 60

	DefaultHighlight = "#ffffff"
	DefaultPrimary   = "#21c7d9"
	DefaultSecondary = "#ff4fa3"
)

type Config struct {
	Variant string `yaml:"variant"`
	Device  string `yaml:"device"`
	Seed    int64  `yaml:"seed"`
	Frames  int    `yaml:"frames"`
	FPS     int    `yaml:"fps"`

	ReducedMotion bool `yaml:"reduced_motion"`

	Viewport ViewportConfig `yaml:"viewport"`
	Palette  PaletteConfig  `yaml:"palette"`
	Params   bubble.Params  `yaml:"params"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DPR    float64 `yaml:"dpr"`
}

type PaletteConfig struct {
	Highlight      string  `yaml:"highlight"`
	Primary        string  `yaml:"primary"`
	Secondary      string  `yaml:"secondary"`
	Background     string  `yaml:"background"`
	HighlightAlpha float64 `yaml:"highlight_alpha"`
	MidAlpha       float64 `yaml:"mid_alpha"`
}

// DefaultConfig returns the fullscreen defaults.
func DefaultConfig() *Config {
	return DefaultFor(bubble.Fullscreen)
}

func DefaultFor(v bubble.Variant) *Config {
	return &Config{
		Variant: v.String(),
		Device:  bubble.Desktop.String(),
		Frames:  DefaultFrames,
		FPS:     DefaultFPS,
		Viewport: ViewportConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			DPR:    DefaultDPR,
		},
		Palette: PaletteConfig{
			Highlight:      DefaultHighlight,
			Primary:        DefaultPrimary,
			Secondary:      DefaultSecondary,
			HighlightAlpha: 0.35,
			MidAlpha:       0.55,
		},
		Params: bubble.DefaultParams(v),
	}
}

// Load reads a YAML config. Fields missing from the file keep the defaults of
// the variant the file names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var head struct {
		Variant string `yaml:"variant"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	v := bubble.Fullscreen
	if head.Variant != "" {
		parsed, err := bubble.ParseVariant(head.Variant)
		if err != nil {
			return nil, err
		}
		v = parsed
	}

	cfg := DefaultFor(v)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Variant = v.String()
	cfg.Params.Variant = v
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be modified safely.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}

func (c *Config) VariantValue() (bubble.Variant, error) {
	return bubble.ParseVariant(c.Variant)
}

func (c *Config) DeviceClass() (bubble.DeviceClass, error) {
	return bubble.ParseDeviceClass(c.Device)
}

func (c *Config) Environment() (bubble.StaticEnvironment, error) {
	class, err := c.DeviceClass()
	if err != nil {
		return bubble.StaticEnvironment{}, err
	}
	return bubble.StaticEnvironment{
		DPR:     c.Viewport.DPR,
		Class:   class,
		Reduced: c.ReducedMotion,
	}, nil
}

// BubbleParams returns the animator params with the variant applied.
func (c *Config) BubbleParams() (bubble.Params, error) {
	v, err := c.VariantValue()
	if err != nil {
		return bubble.Params{}, err
	}
	p := c.Params
	p.Variant = v
	return p, nil
}

func (c *Config) Validate() error {
	p, err := c.BubbleParams()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := c.DeviceClass(); err != nil {
		return err
	}
	if c.Frames < 0 {
		return fmt.Errorf("config: frames must not be negative, got %d", c.Frames)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	}
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("config: viewport size must not be negative")
	}
	for name, hex := range map[string]string{
		"highlight": c.Palette.Highlight,
		"primary":   c.Palette.Primary,
		"secondary": c.Palette.Secondary,
	} {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("config: palette %s: %w", name, err)
		}
	}
	if c.Palette.Background != "" {
		if _, err := colorful.Hex(c.Palette.Background); err != nil {
			return fmt.Errorf("config: palette background: %w", err)
		}
	}
	return nil
}
