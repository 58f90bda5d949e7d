// Package optim searches bubble parameters for the values that minimise a
// run metric.
package optim

import (
	"context"
	"math"

	"github.com/san-kum/neonbubbles/internal/sim"
)

// Build turns one grid point into a runner and its run config.
type Build func(params map[string]float64) (*sim.Runner, sim.Config, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs every combination and returns the one with the lowest value of
// metricName. Points that fail to build, lack the metric or report a
// negative value (not reached) are skipped; a cancelled context stops the
// search with its error.
func (g *GridSearch) Search(ctx context.Context, build Build, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &best, &bestParams)
	return bestParams, best, err
}

// Points is the number of combinations Search will try.
func (g *GridSearch) Points() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Build,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		runner, cfg, err := build(current)
		if err != nil {
			return nil
		}

		result, err := runner.Run(ctx, cfg)
		if err != nil {
			return ctx.Err()
		}

		val, ok := result.Metrics[metricName]
		if ok && val >= 0 && val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
