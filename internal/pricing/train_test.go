package pricing

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"roomify/internal/domain"
)

// syntheticHistory builds observations with a known downward demand
// response to own price plus season/weekend effects and mild noise.
func syntheticHistory(days int, seed int64) []domain.Observation {
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	capacity := 200.0

	out := make([]domain.Observation, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		season := domain.SeasonOf(date)
		dayType := domain.DayTypeOf(date)

		comp := 140 + 30*rng.Float64()
		own := comp * (0.9 + 0.3*rng.Float64())

		base := 60.0
		switch season {
		case domain.SeasonSummer:
			base = 170
		case domain.SeasonSpring, domain.SeasonFall:
			base = 110
		}
		demand := base - 0.6*(own-comp)
		if dayType == domain.Weekend {
			demand *= 1.3
		}
		demand += rng.NormFloat64() * 8
		demand = math.Max(0, math.Min(demand, capacity))

		out = append(out, domain.Observation{
			Date:            date,
			Season:          season,
			DayType:         dayType,
			OwnPrice:        own,
			CompetitorPrice: comp,
			Demand:          demand,
			Occupancy:       demand / capacity,
			Revenue:         own * demand,
		})
	}
	return out
}

func TestTrain_InsufficientData(t *testing.T) {
	obs := syntheticHistory(MinTrainingRows-1, 1)
	_, err := Train(obs, 200, Options{})
	var ide *domain.InsufficientDataError
	require.ErrorAs(t, err, &ide)
	require.Equal(t, MinTrainingRows, ide.Min)
	require.Equal(t, MinTrainingRows-1, ide.Rows)
}

func TestTrain_Deterministic(t *testing.T) {
	obs := syntheticHistory(365, 7)

	m1, err := Train(obs, 200, Options{Trees: 30, Seed: 42})
	require.NoError(t, err)
	m2, err := Train(obs, 200, Options{Trees: 30, Seed: 42})
	require.NoError(t, err)

	d1, err := m1.Evaluate()
	require.NoError(t, err)
	d2, err := m2.Evaluate()
	require.NoError(t, err)

	require.Equal(t, d1.R2, d2.R2)
	require.Equal(t, d1.MAE, d2.MAE)
	require.Equal(t, d1.FeatureImportance, d2.FeatureImportance)
}

func TestTrain_Diagnostics(t *testing.T) {
	obs := syntheticHistory(365, 7)
	m, err := Train(obs, 200, Options{Trees: 30, Seed: 42})
	require.NoError(t, err)

	diag, err := m.Evaluate()
	require.NoError(t, err)
	require.Equal(t, 365, diag.Rows)
	require.Equal(t, 73, diag.TestRows)
	require.Equal(t, 292, diag.TrainRows)
	require.Greater(t, diag.R2, 0.5, "forest should explain most of the synthetic signal")
	require.Greater(t, diag.MAE, 0.0)

	var sum float64
	for name, v := range diag.FeatureImportance {
		require.GreaterOrEqual(t, v, 0.0, "importance of %s", name)
		sum += v
	}
	require.InDelta(t, 1.0, sum, 1e-9, "importances must normalize to 1")
}

func TestPredict_NonNegativeAcrossGrid(t *testing.T) {
	obs := syntheticHistory(365, 7)
	m, err := Train(obs, 200, Options{Trees: 30, Seed: 42})
	require.NoError(t, err)

	c := domain.Context{Season: domain.SeasonWinter, DayType: domain.Weekday, CompetitorPrice: 150}
	for p := 80.0; p <= 400; p += 20 {
		d, err := m.EstimateDemand(c, p)
		require.NoError(t, err)
		require.GreaterOrEqual(t, d, 0.0, "price %v", p)
	}
}

func TestPredict_MonotonicTrend(t *testing.T) {
	// Statistical, not per-point: mean predicted demand over the low
	// third of the grid should exceed the mean over the high third.
	obs := syntheticHistory(730, 11)
	m, err := Train(obs, 200, Options{Trees: 50, Seed: 42})
	require.NoError(t, err)

	c := domain.Context{Season: domain.SeasonSummer, DayType: domain.Weekend, CompetitorPrice: 160}
	var low, high float64
	n := 0
	for p := 130.0; p < 160; p += 5 {
		d, err := m.EstimateDemand(c, p)
		require.NoError(t, err)
		low += d
		n++
	}
	low /= float64(n)
	n = 0
	for p := 190.0; p < 220; p += 5 {
		d, err := m.EstimateDemand(c, p)
		require.NoError(t, err)
		high += d
		n++
	}
	high /= float64(n)

	require.Greater(t, low, high, "demand should fall as own price rises on average")
}

func TestTrainedModel_NilHandle(t *testing.T) {
	var m *TrainedModel
	_, err := m.Predict(make(FeatureVector, len(featureNames)))
	require.ErrorIs(t, err, domain.ErrModelNotTrained)
	_, err = m.EstimateDemand(domain.Context{Season: domain.SeasonFall, CompetitorPrice: 100}, 120)
	require.ErrorIs(t, err, domain.ErrModelNotTrained)
	_, err = m.Evaluate()
	require.ErrorIs(t, err, domain.ErrModelNotTrained)
}

func TestTrain_VersionChangesPerRun(t *testing.T) {
	obs := syntheticHistory(120, 3)
	m1, err := Train(obs, 200, Options{Trees: 10, Seed: 42})
	require.NoError(t, err)
	m2, err := Train(obs, 200, Options{Trees: 10, Seed: 42})
	require.NoError(t, err)
	require.NotEqual(t, m1.Version(), m2.Version(), "retrain must produce a fresh handle version")
}
