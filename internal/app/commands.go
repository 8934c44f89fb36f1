package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"roomify/internal/adapters/observability"
	"roomify/internal/domain"
	"roomify/internal/pricing"
)

// ModelRef is the shared handle to the current trained model. Retraining
// stores a fresh immutable model wholesale, so in-flight readers are
// never corrupted by a concurrent swap.
type ModelRef struct {
	p atomic.Pointer[pricing.TrainedModel]
}

func (r *ModelRef) Load() *pricing.TrainedModel { return r.p.Load() }
func (r *ModelRef) Store(m *pricing.TrainedModel) { r.p.Store(m) }

// TrainingService owns the train-and-swap flow: load the historical
// dataset, fit the ensemble, publish the new handle.
type TrainingService struct {
	store domain.DatasetStore
	path  string
	ref   *ModelRef
	opts  pricing.Options
}

func NewTrainingService(store domain.DatasetStore, path string, ref *ModelRef, opts pricing.Options) *TrainingService {
	return &TrainingService{store: store, path: path, ref: ref, opts: opts}
}

// Train is a blocking unit of work with a single definitive outcome.
// Diagnostics are returned even though the model handle is swapped in,
// so callers can judge trustworthiness of the run.
func (s *TrainingService) Train(ctx context.Context, capacity float64) (pricing.Diagnostics, error) {
	start := time.Now()

	obs, err := s.store.Load(ctx, s.path)
	if err != nil {
		observability.ObserveTraining("load_error", time.Since(start))
		return pricing.Diagnostics{}, fmt.Errorf("load dataset %s: %w", s.path, err)
	}

	m, err := pricing.Train(obs, capacity, s.opts)
	if err != nil {
		observability.ObserveTraining("error", time.Since(start))
		return pricing.Diagnostics{}, err
	}

	s.ref.Store(m)
	diag, _ := m.Evaluate()
	observability.ObserveTraining("ok", time.Since(start))
	log.Info().
		Str("version", m.Version()).
		Int("rows", diag.Rows).
		Float64("r2", diag.R2).
		Float64("mae", diag.MAE).
		Dur("duration", time.Since(start)).
		Msg("model trained")
	return diag, nil
}
