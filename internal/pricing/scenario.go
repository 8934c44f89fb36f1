package pricing

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"roomify/internal/domain"
)

// Scenario is one what-if context variant to optimize (competitor shift,
// holiday toggle, season change, ...).
type Scenario struct {
	Name    string         `json:"name"`
	Context domain.Context `json:"context"`
	Grid    Grid           `json:"grid"`
}

// ScenarioResult pairs a scenario with its optimizer outcome. Err is set
// per item; a failing scenario never drops the rest of the batch.
type ScenarioResult struct {
	Name   string
	Result *domain.OptimizationResult
	Err    error
}

// Runner fans a scenario batch out over a bounded worker pool and returns
// results in scenario input order, which before/after comparisons rely on.
type Runner struct {
	opt     *Optimizer
	workers int64
}

func NewRunner(opt *Optimizer, workers int) *Runner {
	if workers <= 0 {
		workers = 4
	}
	return &Runner{opt: opt, workers: int64(workers)}
}

// RunBatch optimizes every scenario. Results land in an index-addressed
// slice, so input order survives concurrent completion.
func (r *Runner) RunBatch(ctx context.Context, est domain.DemandEstimator, scenarios []Scenario, capacity float64) []ScenarioResult {
	results := make([]ScenarioResult, len(scenarios))
	sem := semaphore.NewWeighted(r.workers)
	var wg sync.WaitGroup

	for i, sc := range scenarios {
		results[i].Name = sc.Name

		if err := sem.Acquire(ctx, 1); err != nil {
			// context gone: mark this and all remaining scenarios
			for j := i; j < len(scenarios); j++ {
				results[j].Name = scenarios[j].Name
				results[j].Err = err
			}
			break
		}

		wg.Add(1)
		go func(i int, sc Scenario) {
			defer wg.Done()
			defer sem.Release(1)
			res, err := r.opt.Optimize(ctx, est, sc.Context, sc.Grid, capacity)
			results[i].Result = res
			results[i].Err = err
		}(i, sc)
	}

	wg.Wait()
	return results
}
