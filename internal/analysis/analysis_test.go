package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/neonbubbles/internal/bubble"
)

func eased(target bubble.Vec2, k float64, n int) (offsets, targets []bubble.Vec2) {
	var off bubble.Vec2
	for i := 0; i < n; i++ {
		off.X += (target.X - off.X) * k
		off.Y += (target.Y - off.Y) * k
		offsets = append(offsets, off)
		targets = append(targets, target)
	}
	return offsets, targets
}

func TestAnalyzeConvergence(t *testing.T) {
	offsets, targets := eased(bubble.Vec2{X: 15, Y: -15}, 0.07, 200)

	c := AnalyzeConvergence(offsets, targets, 0.1)
	if !c.Monotonic {
		t.Error("expected monotonic approach")
	}
	if c.SettleFrame <= 0 || c.SettleFrame >= 200 {
		t.Errorf("expected settle frame inside the run, got %d", c.SettleFrame)
	}
	if c.FinalError > 0.1 {
		t.Errorf("expected small final error, got %f", c.FinalError)
	}
	if c.TargetChanges != 0 {
		t.Errorf("expected no target changes, got %d", c.TargetChanges)
	}
}

func TestAnalyzeConvergenceOvershoot(t *testing.T) {
	target := bubble.Vec2{X: 10}
	offsets := []bubble.Vec2{{X: 5}, {X: 9}, {X: 12}, {X: 10.5}}
	targets := []bubble.Vec2{target, target, target, target}

	c := AnalyzeConvergence(offsets, targets, 0.1)
	if c.Monotonic {
		t.Error("expected overshoot to break monotonicity")
	}
	if c.SettleFrame != -1 {
		t.Errorf("expected unsettled, got %d", c.SettleFrame)
	}
}

func TestAnalyzeConvergenceTargetChange(t *testing.T) {
	a, ta := eased(bubble.Vec2{X: 10}, 0.5, 20)
	b := []bubble.Vec2{a[len(a)-1]}
	tb := []bubble.Vec2{{X: -10}}

	c := AnalyzeConvergence(append(a, b...), append(ta, tb...), 0.1)
	if !c.Monotonic {
		t.Error("a target change must not count as divergence")
	}
	if c.TargetChanges != 1 {
		t.Errorf("expected 1 target change, got %d", c.TargetChanges)
	}
	if c.SettleFrame != -1 {
		t.Errorf("expected unsettled after the jump, got %d", c.SettleFrame)
	}
}

func TestAnalyzeConvergenceEmpty(t *testing.T) {
	c := AnalyzeConvergence(nil, nil, 0.1)
	if !c.Monotonic || c.SettleFrame != -1 {
		t.Errorf("unexpected result for empty input: %+v", c)
	}
}

func TestEstimateSmoothing(t *testing.T) {
	offsets, targets := eased(bubble.Vec2{X: 30, Y: 12}, 0.07, 100)
	// the eased series starts one step in, so prepend the origin.
	offsets = append([]bubble.Vec2{{}}, offsets...)
	targets = append([]bubble.Vec2{targets[0]}, targets...)

	k := EstimateSmoothing(offsets, targets, 1e-6)
	if math.Abs(k-0.07) > 1e-6 {
		t.Errorf("expected smoothing 0.07, got %f", k)
	}
	if EstimateSmoothing(nil, nil, 0) != 0 {
		t.Error("expected 0 for empty input")
	}
}

func TestDominantFrequency(t *testing.T) {
	const n = 512
	series := make([]float64, n)
	for i := range series {
		series[i] = 100 + 6*math.Sin(2*math.Pi*8*float64(i)/n)
	}

	f, err := DominantFrequency(series)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f-8.0/n) > 1e-12 {
		t.Errorf("expected %f cycles per sample, got %f", 8.0/n, f)
	}
}

func TestDominantFrequencyShort(t *testing.T) {
	if _, err := DominantFrequency([]float64{1, 2, 3}); !errors.Is(err, ErrShortSeries) {
		t.Errorf("expected ErrShortSeries, got %v", err)
	}
}

func TestBobSpeed(t *testing.T) {
	speed := 0.4
	step := 0.016
	freq := speed * step / (2 * math.Pi)
	if got := BobSpeed(freq, step); math.Abs(got-speed) > 1e-12 {
		t.Errorf("expected %f, got %f", speed, got)
	}
	if BobSpeed(1, 0) != 0 {
		t.Error("expected 0 for zero time step")
	}
}

func TestPowerSpectrumLength(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 64))
	if len(ps) != 32 {
		t.Errorf("expected 32 bins, got %d", len(ps))
	}
}

func TestPortraitToASCII(t *testing.T) {
	points := []bubble.Vec2{{X: -5, Y: -5}, {X: 0, Y: 0}, {X: 5, Y: 5}}
	out := PortraitToASCII(points, 20, 10)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(lines))
	}
	if !strings.Contains(out, "•") {
		t.Error("expected plotted points")
	}
	if PortraitToASCII(nil, 20, 10) != "" {
		t.Error("expected empty output for no points")
	}
}

func TestDominantFrequencyAnyLength(t *testing.T) {
	const n = 300
	series := make([]float64, n)
	for i := range series {
		series[i] = math.Cos(2 * math.Pi * 15 * float64(i) / n)
	}

	f, err := DominantFrequency(series)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f-15.0/n) > 1e-12 {
		t.Errorf("expected %f cycles per sample, got %f", 15.0/n, f)
	}
}
