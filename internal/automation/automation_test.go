package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/neonbubbles/internal/storage"
)

const scenarioYAML = `
name: visibility
description: hide the page then come back
steps:
  - variant: fullscreen
    frames: 40
    seed: 3
    events: ["hide@10", "show@20"]
    save: true
  - variant: parallax
    preset: sluggish
    frames: 30
    seed: 3
    track: 2
    params:
      parallax_max: 60
    events: ["pointer@1:800,600"]
`

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "visibility" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Steps[1].Params["parallax_max"] != 60 {
		t.Errorf("params not parsed: %v", sc.Steps[1].Params)
	}
}

func TestParseScenarioErrors(t *testing.T) {
	if _, err := ParseScenario([]byte("name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
	if _, err := ParseScenario([]byte("steps: [\n")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestStepConfig(t *testing.T) {
	cfg, err := StepConfig(ScenarioStep{
		Variant: "parallax",
		Preset:  "deep",
		Device:  "mobile",
		Params:  map[string]float64{"smoothing": 0.3},
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Params.ParallaxMax != 60 || cfg.Params.Smoothing != 0.3 || cfg.Device != "mobile" {
		t.Errorf("unexpected config %+v", cfg)
	}

	bad := []ScenarioStep{
		{Variant: "wobbly"},
		{Variant: "parallax", Preset: "nope"},
		{Variant: "parallax", Params: map[string]float64{"gravity": 9.8}},
		{Variant: "parallax", Params: map[string]float64{"smoothing": 2}},
	}
	for _, step := range bad {
		if _, err := StepConfig(step); err == nil {
			t.Errorf("expected error for %+v", step)
		}
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	results, err := RunScenario(context.Background(), sc, Options{Store: st})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if got := len(first.Result.Samples); got != 30 {
		t.Errorf("hidden frames should not draw: got %d samples", got)
	}
	if first.RunID == "" {
		t.Error("first step should be saved")
	}
	if _, err := st.Load(first.RunID); err != nil {
		t.Errorf("saved run not loadable: %v", err)
	}

	second := results[1]
	if second.RunID != "" {
		t.Error("second step should not be saved")
	}
	last := second.Result.Samples[len(second.Result.Samples)-1]
	if last.TargetX != 30 || last.TargetY != 30 {
		t.Errorf("expected target (30,30), got (%f,%f)", last.TargetX, last.TargetY)
	}
}

func TestRunScenarioStopsOnError(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Variant: "element", Frames: 5, Seed: 1},
		{Variant: "element", Frames: 5, Events: []string{"explode@2"}},
	}}
	results, err := RunScenario(context.Background(), sc, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(results) != 1 {
		t.Errorf("expected the completed step, got %d results", len(results))
	}
}

func TestRunSweep(t *testing.T) {
	results, err := RunSweep(context.Background(), &ParameterSweep{
		Variant:  "fullscreen",
		Param:    "count",
		Min:      10,
		Max:      30,
		NumSteps: 3,
		Frames:   20,
		Seed:     5,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, want := range []float64{10, 20, 30} {
		r := results[i]
		if r.Value != want {
			t.Errorf("point %d: value %f, want %f", i, r.Value, want)
		}
		if r.Drawn != 20 {
			t.Errorf("point %d: drawn %d", i, r.Drawn)
		}
		if got := r.Metrics["draw_calls"]; got != want*20 {
			t.Errorf("point %d: draw calls %f, want %f", i, got, want*20)
		}
	}
}

func TestRunSweepErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := RunSweep(ctx, &ParameterSweep{Variant: "fullscreen", Param: "count"}, nil); err == nil {
		t.Error("expected error for zero steps")
	}
	if _, err := RunSweep(ctx, &ParameterSweep{Variant: "fullscreen", Param: "gravity", NumSteps: 2}, nil); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
