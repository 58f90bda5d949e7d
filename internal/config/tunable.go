package config

import (
	"fmt"
	"sort"
)

// Tunable is a numeric config value addressable by name, used by the
// launcher's config screen and by scenario files and sweeps.
type Tunable struct {
	Name string
	Step float64
	Get  func(c *Config) float64
	Set  func(c *Config, v float64)
}

var tunables = []Tunable{
	{"count", 1,
		func(c *Config) float64 { return float64(c.Params.CountDesktop) },
		func(c *Config, v float64) { c.Params.CountDesktop = max(int(v), 0) }},
	{"count_mobile", 1,
		func(c *Config) float64 { return float64(c.Params.CountMobile) },
		func(c *Config, v float64) { c.Params.CountMobile = max(int(v), 0) }},
	{"dpr", 0.5,
		func(c *Config) float64 { return c.Viewport.DPR },
		func(c *Config, v float64) { c.Viewport.DPR = v }},
	{"width", 10,
		func(c *Config) float64 { return c.Viewport.Width },
		func(c *Config, v float64) { c.Viewport.Width = v }},
	{"height", 10,
		func(c *Config) float64 { return c.Viewport.Height },
		func(c *Config, v float64) { c.Viewport.Height = v }},
	{"radius_min", 1,
		func(c *Config) float64 { return c.Params.Radius.Min },
		func(c *Config, v float64) { c.Params.Radius.Min = v }},
	{"radius_max", 1,
		func(c *Config) float64 { return c.Params.Radius.Max },
		func(c *Config, v float64) { c.Params.Radius.Max = v }},
	{"speed_min", 0.05,
		func(c *Config) float64 { return c.Params.Speed.Min },
		func(c *Config, v float64) { c.Params.Speed.Min = v }},
	{"speed_max", 0.05,
		func(c *Config) float64 { return c.Params.Speed.Max },
		func(c *Config, v float64) { c.Params.Speed.Max = v }},
	{"drift", 0.05,
		func(c *Config) float64 { return c.Params.Drift },
		func(c *Config, v float64) { c.Params.Drift = v }},
	{"bob_dist", 1,
		func(c *Config) float64 { return c.Params.BobDist },
		func(c *Config, v float64) { c.Params.BobDist = v }},
	{"time_step", 0.002,
		func(c *Config) float64 { return c.Params.TimeStep },
		func(c *Config, v float64) { c.Params.TimeStep = v }},
	{"smoothing", 0.01,
		func(c *Config) float64 { return c.Params.Smoothing },
		func(c *Config, v float64) { c.Params.Smoothing = v }},
	{"parallax_max", 5,
		func(c *Config) float64 { return c.Params.ParallaxMax },
		func(c *Config, v float64) { c.Params.ParallaxMax = v }},
	{"highlight", 0.05,
		func(c *Config) float64 { return c.Params.Highlight },
		func(c *Config, v float64) { c.Params.Highlight = v }},
	{"edge_alpha", 0.01,
		func(c *Config) float64 { return c.Params.EdgeAlpha },
		func(c *Config, v float64) { c.Params.EdgeAlpha = v }},
}

// Tunables returns the named tunables in the order given. Unknown names are
// skipped.
func Tunables(names ...string) []Tunable {
	out := make([]Tunable, 0, len(names))
	for _, n := range names {
		if t, ok := LookupTunable(n); ok {
			out = append(out, t)
		}
	}
	return out
}

func LookupTunable(name string) (Tunable, bool) {
	for _, t := range tunables {
		if t.Name == name {
			return t, true
		}
	}
	return Tunable{}, false
}

func TunableNames() []string {
	names := make([]string, len(tunables))
	for i, t := range tunables {
		names[i] = t.Name
	}
	sort.Strings(names)
	return names
}

// SetParam sets a tunable by name. The result is not validated.
func (c *Config) SetParam(name string, v float64) error {
	t, ok := LookupTunable(name)
	if !ok {
		return fmt.Errorf("config: unknown parameter %q", name)
	}
	t.Set(c, v)
	return nil
}

func (c *Config) Param(name string) (float64, error) {
	t, ok := LookupTunable(name)
	if !ok {
		return 0, fmt.Errorf("config: unknown parameter %q", name)
	}
	return t.Get(c), nil
}
