package analysis

import (
	"math"

	"github.com/san-kum/neonbubbles/internal/bubble"
)

type Convergence struct {
	// Monotonic is false if the distance to the target ever grew while the
	// target stayed put.
	Monotonic bool
	// SettleFrame is the first sample index from which the offset stayed
	// within tolerance, or -1.
	SettleFrame int
	FinalError  float64
	// TargetChanges counts how often the target moved.
	TargetChanges int
}

// AnalyzeConvergence walks paired offset and target samples.
func AnalyzeConvergence(offsets, targets []bubble.Vec2, tol float64) Convergence {
	n := min(len(offsets), len(targets))
	c := Convergence{Monotonic: true, SettleFrame: -1}
	if n == 0 {
		return c
	}

	prev := math.Inf(1)
	lastOut := -1
	for i := 0; i < n; i++ {
		if i > 0 && targets[i] != targets[i-1] {
			c.TargetChanges++
			prev = math.Inf(1)
			lastOut = i
		}
		d := targets[i].Sub(offsets[i]).Len()
		if d > prev+1e-9 {
			c.Monotonic = false
		}
		prev = d
		if d >= tol {
			lastOut = i
		}
	}

	c.FinalError = targets[n-1].Sub(offsets[n-1]).Len()
	if lastOut < n-1 {
		c.SettleFrame = lastOut + 1
	}
	return c
}

// EstimateSmoothing recovers the easing factor k from consecutive distances,
// d[i+1] = d[i]*(1-k), averaged over samples with a fixed target and a
// distance above floor.
func EstimateSmoothing(offsets, targets []bubble.Vec2, floor float64) float64 {
	n := min(len(offsets), len(targets))
	sum, count := 0.0, 0
	for i := 0; i+1 < n; i++ {
		if targets[i] != targets[i+1] {
			continue
		}
		d0 := targets[i].Sub(offsets[i]).Len()
		d1 := targets[i+1].Sub(offsets[i+1]).Len()
		if d0 <= floor {
			continue
		}
		sum += 1 - d1/d0
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
