// Package automation runs scripted bubble scenarios and parameter sweeps.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/neonbubbles/internal/config"
	"github.com/san-kum/neonbubbles/internal/sim"
	"github.com/san-kum/neonbubbles/internal/storage"
)

// Scenario defines a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Params are tunable names as accepted by
// config.SetParam and are applied over the preset.
type ScenarioStep struct {
	Variant string             `yaml:"variant"`
	Preset  string             `yaml:"preset"`
	Frames  int                `yaml:"frames"`
	Seed    int64              `yaml:"seed"`
	Device  string             `yaml:"device"`
	Reduced bool               `yaml:"reduced_motion"`
	Track   int                `yaml:"track"`
	Events  []string           `yaml:"events"`
	Params  map[string]float64 `yaml:"params"`
	Save    bool               `yaml:"save"`
}

type StepResult struct {
	Step   int
	Config *config.Config
	Result *sim.Result
	// RunID is set when the step was saved.
	RunID string
}

// Options carries the collaborators a scenario run may use. Store may be
// nil, in which case save flags are ignored.
type Options struct {
	Store  *storage.Store
	Logger *slog.Logger
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// StepConfig resolves a step to a validated config.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	name := step.Preset
	if name == "" {
		name = "default"
	}
	cfg := config.GetPreset(step.Variant, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %s/%s", step.Variant, name)
	}
	if step.Frames > 0 {
		cfg.Frames = step.Frames
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	if step.Device != "" {
		cfg.Device = step.Device
	}
	if step.Reduced {
		cfg.ReducedMotion = true
	}
	for k, v := range step.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in order. On failure the results of the
// steps that completed are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, opts Options) ([]StepResult, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("running step", "step", i+1, "of", len(scenario.Steps), "variant", step.Variant, "preset", step.Preset)

		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		events, err := sim.ParseEvents(step.Events)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		runner, err := sim.NewFromConfig(cfg, sim.WithLogger(log))
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := runner.Run(ctx, sim.Config{
			Frames: cfg.Frames,
			Seed:   seed,
			Track:  step.Track,
			Events: events,
		})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Config: cfg, Result: result}
		if step.Save && opts.Store != nil {
			sr.RunID, err = opts.Store.Save(storage.RunMetadata{
				Variant: cfg.Variant,
				Preset:  step.Preset,
				Device:  cfg.Device,
				Seed:    seed,
				Width:   cfg.Viewport.Width,
				Height:  cfg.Viewport.Height,
				DPR:     cfg.Viewport.DPR,
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs one variant across evenly spaced values of a tunable.
type ParameterSweep struct {
	Variant  string
	Preset   string
	Param    string
	Min, Max float64
	NumSteps int
	Frames   int
	Seed     int64
	Events   []string
}

// SweepResult holds the metrics of one sweep point.
type SweepResult struct {
	Value   float64
	Metrics map[string]float64
	Drawn   int
}

// RunSweep executes a parameter sweep. Every point uses the same seed so
// differences come from the parameter alone.
func RunSweep(ctx context.Context, sweep *ParameterSweep, log *slog.Logger) ([]SweepResult, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}
	if _, ok := config.LookupTunable(sweep.Param); !ok {
		return nil, fmt.Errorf("unknown parameter %q", sweep.Param)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		val := sweep.Min + float64(i)*paramStep
		step := ScenarioStep{
			Variant: sweep.Variant,
			Preset:  sweep.Preset,
			Frames:  sweep.Frames,
			Seed:    sweep.Seed,
			Events:  sweep.Events,
			Params:  map[string]float64{sweep.Param: val},
		}
		res, err := RunScenario(ctx, &Scenario{Steps: []ScenarioStep{step}}, Options{Logger: log})
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, val, err)
		}

		r := res[0].Result
		results = append(results, SweepResult{Value: val, Metrics: r.Metrics, Drawn: len(r.Samples)})
		log.Info("sweep point", "index", i+1, "of", sweep.NumSteps, sweep.Param, val)
	}

	return results, nil
}
