package pricing

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"roomify/internal/domain"
)

// revenueTolerance bounds floating-point noise when comparing candidate
// revenues; ties within it resolve to the lowest price.
const revenueTolerance = 1e-6

// Grid is an inclusive, evenly spaced price search range.
type Grid struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

func (g Grid) validate() error {
	if g.Min <= 0 {
		return &domain.ValidationError{Field: "price_min", Reason: "must be positive"}
	}
	if g.Min > g.Max {
		return &domain.ValidationError{Field: "price_range", Reason: "price_min exceeds price_max"}
	}
	if g.Step <= 0 {
		return &domain.ValidationError{Field: "step", Reason: "must be positive"}
	}
	return nil
}

// prices expands the grid. Max is included when it lands on a step
// boundary (within tolerance).
func (g Grid) prices() []float64 {
	var out []float64
	for i := 0; ; i++ {
		p := g.Min + float64(i)*g.Step
		if p > g.Max+1e-9 {
			break
		}
		out = append(out, p)
	}
	return out
}

// Optimizer searches a price grid for the revenue maximum. Grid points
// are independent, so evaluation fans out across workers; selection runs
// over the index-ordered slice afterwards, keeping the lowest-price
// tie-break deterministic regardless of completion order.
type Optimizer struct {
	workers int
}

func NewOptimizer(workers int) *Optimizer {
	if workers <= 0 {
		workers = 4
	}
	return &Optimizer{workers: workers}
}

// Optimize evaluates every candidate price, caps predicted demand at
// capacity, and returns the point maximizing price × effective demand
// along with the full evaluated curve.
func (o *Optimizer) Optimize(ctx context.Context, est domain.DemandEstimator, c domain.Context, g Grid, capacity float64) (*domain.OptimizationResult, error) {
	if est == nil {
		return nil, domain.ErrModelNotTrained
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	if capacity <= 0 {
		return nil, &domain.ValidationError{Field: "capacity", Reason: "must be positive"}
	}

	prices := g.prices()
	curve := make([]domain.PricePoint, len(prices))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)
	for i, p := range prices {
		i, p := i, p
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			demand, err := est.EstimateDemand(c, p)
			if err != nil {
				return err
			}
			eff := math.Min(demand, capacity)
			curve[i] = domain.PricePoint{
				Price:           p,
				Demand:          demand,
				EffectiveDemand: eff,
				Revenue:         p * eff,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	best := curve[0]
	for _, pt := range curve[1:] {
		if pt.Revenue > best.Revenue+revenueTolerance {
			best = pt
		}
	}

	return &domain.OptimizationResult{
		Context:          c,
		Capacity:         capacity,
		OptimalPrice:     best.Price,
		PredictedDemand:  best.Demand,
		EffectiveDemand:  best.EffectiveDemand,
		Occupancy:        best.EffectiveDemand / capacity,
		ProjectedRevenue: best.Revenue,
		Curve:            curve,
	}, nil
}
