package experiment

import (
	"context"
	"log/slog"
	"sync"
)

// Ensemble runs the same configuration over consecutive seeds concurrently.
type Ensemble struct {
	base    Config
	numRuns int
	log     *slog.Logger
}

func NewEnsemble(base Config, numRuns int, log *slog.Logger) *Ensemble {
	return &Ensemble{base: base, numRuns: numRuns, log: log}
}

// Run returns one result per seed in seed order, or the first error.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := e.base
			cfg.Seed = e.base.Seed + int64(idx)

			exp, err := New(cfg, e.log)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
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
