package sim

import (
	"context"
	"sync"
)

// WorldFactory builds a fresh world for one seeded run.
type WorldFactory func(seed int64) (*World, error)

// Ensemble runs the same scene with consecutive seeds, one goroutine per run.
// Worlds are never shared between runs.
type Ensemble struct {
	build      WorldFactory
	newMetrics func() []Metric
	numRuns    int
	seedStart  int64
}

// NewEnsemble creates an ensemble. newMetrics may be nil; otherwise it is
// called once per run so metric state is not shared across goroutines.
func NewEnsemble(build WorldFactory, newMetrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, newMetrics: newMetrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			w, err := e.build(cfgCopy.Seed)
			if err != nil {
				errs[idx] = err
				return
			}

			sim := New()
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, w, cfgCopy)
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
