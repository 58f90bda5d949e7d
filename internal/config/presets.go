package config

import (
	"sort"

	"github.com/san-kum/neonbubbles/internal/bubble"
)

func preset(v bubble.Variant, mutate func(c *Config)) *Config {
	c := DefaultFor(v)
	if mutate != nil {
		mutate(c)
	}
	return c
}

var Presets = map[string]map[string]*Config{
	"element": {
		"default": preset(bubble.Element, nil),
		"hero": preset(bubble.Element, func(c *Config) {
			c.Viewport = ViewportConfig{Width: 1200, Height: 420, DPR: 2}
			c.Params.CountDesktop, c.Params.CountMobile = 36, 18
		}),
		"card": preset(bubble.Element, func(c *Config) {
			c.Viewport = ViewportConfig{Width: 320, Height: 200, DPR: 1}
			c.Params.CountDesktop, c.Params.CountMobile = 10, 8
			c.Params.Radius = bubble.Range{Min: 6, Max: 16}
		}),
	},
	"fullscreen": {
		"default": preset(bubble.Fullscreen, nil),
		"mobile": preset(bubble.Fullscreen, func(c *Config) {
			c.Device = bubble.Mobile.String()
			c.Viewport = ViewportConfig{Width: 390, Height: 844, DPR: 3}
		}),
		"calm": preset(bubble.Fullscreen, func(c *Config) {
			c.Params.Speed = bubble.Range{Min: 0.1, Max: 0.35}
			c.Params.Drift = 0.05
		}),
		"dense": preset(bubble.Fullscreen, func(c *Config) {
			c.Params.CountDesktop, c.Params.CountMobile = 120, 60
			c.Params.Radius = bubble.Range{Min: 6, Max: 22}
		}),
	},
	"parallax": {
		"default": preset(bubble.Parallax, nil),
		"mobile": preset(bubble.Parallax, func(c *Config) {
			c.Device = bubble.Mobile.String()
			c.Viewport = ViewportConfig{Width: 390, Height: 844, DPR: 3}
		}),
		"deep": preset(bubble.Parallax, func(c *Config) {
			c.Params.Depth = bubble.Range{Min: 0.3, Max: 2.0}
			c.Params.ParallaxMax = 60
		}),
		"sluggish": preset(bubble.Parallax, func(c *Config) {
			c.Params.Smoothing = 0.02
		}),
		"reduced": preset(bubble.Parallax, func(c *Config) {
			c.ReducedMotion = true
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(variant, name string) *Config {
	v, err := bubble.ParseVariant(variant)
	if err != nil {
		return nil
	}
	variantPresets, ok := Presets[v.String()]
	if !ok {
		return nil
	}
	cfg, ok := variantPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(variant string) []string {
	v, err := bubble.ParseVariant(variant)
	if err != nil {
		return nil
	}
	variantPresets, ok := Presets[v.String()]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variantPresets))
	for name := range variantPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
