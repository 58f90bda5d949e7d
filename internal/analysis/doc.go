// Package analysis inspects recorded bubble runs.
//
// The package covers the two behaviours worth checking numerically:
//
//   - [AnalyzeConvergence]: how the parallax offset approaches its target
//   - [EstimateSmoothing]: the per-frame smoothing factor recovered from a run
//   - [DominantFrequency]: the strongest periodic component of a series,
//     used to recover the bob frequency of a tracked bubble
//   - [PortraitToASCII]: the offset trajectory as a terminal scatter plot
//
// # Convergence
//
// With a fixed target the distance to the target must never grow:
//
//	c := analysis.AnalyzeConvergence(offsets, targets, 0.1)
//	if !c.Monotonic {
//	    // the easing overshot
//	}
package analysis
