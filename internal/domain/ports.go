package domain

import "context"

// DatasetStore loads and persists the static historical dataset.
type DatasetStore interface {
	Load(ctx context.Context, path string) ([]Observation, error)
	Save(ctx context.Context, path string, obs []Observation) error
}

// DemandEstimator is the minimal capability the optimizer and analyzer
// depend on. The trained forest satisfies it; so does any fixed baseline,
// which keeps alternative regression techniques substitutable.
type DemandEstimator interface {
	EstimateDemand(c Context, ownPrice float64) (float64, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
