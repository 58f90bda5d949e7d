package sim

import (
	"context"
	"sync"
)

// Ensemble runs the same scenario under consecutive seeds concurrently.
// Each run gets its own animator, queue and metric set.
type Ensemble struct {
	base      *Runner
	numRuns   int
	seedStart int64
}

func NewEnsemble(r *Runner, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: r, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	base := *e.base
	base.renderer = nil
	base.observers = nil

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			runner := base
			results[idx], errs[idx] = runner.Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Mean averages one metric across results, skipping runs that lack it.
func Mean(results []*Result, name string) float64 {
	sum, n := 0.0, 0
	for _, r := range results {
		if r == nil {
			continue
		}
		if v, ok := r.Metrics[name]; ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
