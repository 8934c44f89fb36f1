package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"roomify/internal/adapters/observability"
	"roomify/internal/domain"
	"roomify/internal/pricing"
)

// PricingService answers optimization, sensitivity and scenario queries
// against the current model handle, with cache-aside over the result
// cache. Keys embed the model version, so a retrain expires everything
// without explicit invalidation.
type PricingService struct {
	ref      *ModelRef
	cache    domain.Cache
	opt      *pricing.Optimizer
	runner   *pricing.Runner
	cacheTTL time.Duration
}

func NewPricingService(ref *ModelRef, cache domain.Cache, opt *pricing.Optimizer, runner *pricing.Runner, ttl time.Duration) *PricingService {
	return &PricingService{ref: ref, cache: cache, opt: opt, runner: runner, cacheTTL: ttl}
}

func (s *PricingService) model() (*pricing.TrainedModel, error) {
	m := s.ref.Load()
	if m == nil {
		return nil, domain.ErrModelNotTrained
	}
	return m, nil
}

func optimizeKey(version string, c domain.Context, g pricing.Grid, capacity float64) string {
	// the date feeds the cyclic day-of-year features, so it is part of
	// the prediction input and must be part of the key
	date := ""
	if !c.Date.IsZero() {
		date = c.Date.Format("2006-01-02")
	}
	sig := fmt.Sprintf("%s|%s|%s|%s|%t|%.4f|%.4f|%.4f|%.4f|%.4f",
		version, date, c.Season, c.DayType, c.Holiday, c.CompetitorPrice, g.Min, g.Max, g.Step, capacity)
	sum := sha1.Sum([]byte(sig))
	return "optimize:" + hex.EncodeToString(sum[:])
}

// Optimize runs the grid search, serving repeats from the cache.
func (s *PricingService) Optimize(ctx context.Context, c domain.Context, g pricing.Grid, capacity float64) (*domain.OptimizationResult, error) {
	m, err := s.model()
	if err != nil {
		return nil, err
	}

	key := optimizeKey(m.Version(), c, g, capacity)
	var cached domain.OptimizationResult
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return &cached, nil
	}

	res, err := s.opt.Optimize(ctx, m, c, g, capacity)
	if err != nil {
		return nil, err
	}
	observability.ObserveOptimization(len(res.Curve))
	_ = s.cache.Set(ctx, key, res, int(s.cacheTTL.Seconds()))
	return res, nil
}

// Sensitivity sweeps one context dimension; own-price sweeps also carry
// the derived elasticity series.
func (s *PricingService) Sensitivity(ctx context.Context, base domain.Context, ownPrice float64, dim pricing.SweepDimension, values []float64, capacity float64) ([]pricing.SweepPoint, []pricing.ElasticityPoint, error) {
	m, err := s.model()
	if err != nil {
		return nil, nil, err
	}
	points, err := pricing.Sensitivity(m, base, ownPrice, dim, values, capacity)
	if err != nil {
		return nil, nil, err
	}
	var els []pricing.ElasticityPoint
	if dim == pricing.SweepOwnPrice {
		els = pricing.Elasticity(points)
	}
	return points, els, nil
}

// Scenarios runs a what-if batch through the optimizer. Per-item errors
// ride along in the results; the batch itself never aborts.
func (s *PricingService) Scenarios(ctx context.Context, scenarios []pricing.Scenario, capacity float64) ([]pricing.ScenarioResult, error) {
	m, err := s.model()
	if err != nil {
		return nil, err
	}
	return s.runner.RunBatch(ctx, m, scenarios, capacity), nil
}

// Diagnostics returns the current model's training-time metrics.
func (s *PricingService) Diagnostics() (pricing.Diagnostics, error) {
	m, err := s.model()
	if err != nil {
		return pricing.Diagnostics{}, err
	}
	return m.Evaluate()
}
