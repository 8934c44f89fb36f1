package pricing

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand"
	"time"

	"roomify/internal/domain"
)

// MinTrainingRows is the smallest dataset accepted for training: two full
// seasonal cycles, practically.
const MinTrainingRows = 60

// Options tunes a training run. Zero values fall back to the default
// ensemble (100 trees, seed 42).
type Options struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     int64
}

func (o Options) withDefaults() Options {
	if o.Trees <= 0 {
		o.Trees = 100
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 12
	}
	if o.MinLeaf <= 0 {
		o.MinLeaf = 2
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	return o
}

// Diagnostics are the held-out evaluation metrics captured at training
// time. Always returned alongside a successful training result.
type Diagnostics struct {
	R2                float64            `json:"r2"`
	MAE               float64            `json:"mae"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	Rows              int                `json:"rows"`
	TrainRows         int                `json:"train_rows"`
	TestRows          int                `json:"test_rows"`
	Seed              int64              `json:"seed"`
	TrainedAt         time.Time          `json:"trained_at"`
}

// TrainedModel owns the fitted ensemble plus training-time metadata.
// Immutable once trained; safe for concurrent Predict calls. Retraining
// produces a fresh handle, never mutates an existing one.
type TrainedModel struct {
	f        *forest
	capacity float64
	version  string
	diag     Diagnostics
}

// Train fits the demand ensemble on historical observations: seeded 80/20
// train/test split, held-out R² and MAE, normalized feature importances.
// capacity is recorded so optimization-time capping stays consistent with
// the data the model saw.
func Train(obs []domain.Observation, capacity float64, opts Options) (*TrainedModel, error) {
	if len(obs) < MinTrainingRows {
		return nil, &domain.InsufficientDataError{Rows: len(obs), Min: MinTrainingRows}
	}
	if capacity <= 0 {
		return nil, &domain.ValidationError{Field: "capacity", Reason: "must be positive"}
	}
	opts = opts.withDefaults()

	xs := make([]FeatureVector, len(obs))
	y := make([]float64, len(obs))
	for i, o := range obs {
		fv, err := Encode(o.Context(), o.OwnPrice)
		if err != nil {
			return nil, fmt.Errorf("encode row %d: %w", i, err)
		}
		xs[i] = fv
		y[i] = o.Demand
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	perm := rng.Perm(len(obs))
	nTest := len(obs) / 5
	if nTest < 1 {
		nTest = 1
	}
	testIdx := perm[:nTest]
	trainIdx := perm[nTest:]

	trainX := make([]FeatureVector, len(trainIdx))
	trainY := make([]float64, len(trainIdx))
	for i, j := range trainIdx {
		trainX[i] = xs[j]
		trainY[i] = y[j]
	}

	f := fitForest(trainX, trainY, forestConfig{
		trees:       opts.Trees,
		maxDepth:    opts.MaxDepth,
		minLeaf:     opts.MinLeaf,
		maxFeatures: (len(featureNames) + 2) / 3,
	}, rng)

	r2, mae := holdoutMetrics(f, xs, y, testIdx)

	imp := make(map[string]float64, len(featureNames))
	for i, name := range featureNames {
		imp[name] = f.importance[i]
	}

	now := time.Now().UTC()
	diag := Diagnostics{
		R2:                r2,
		MAE:               mae,
		FeatureImportance: imp,
		Rows:              len(obs),
		TrainRows:         len(trainIdx),
		TestRows:          len(testIdx),
		Seed:              opts.Seed,
		TrainedAt:         now,
	}
	sum := sha1.Sum([]byte(fmt.Sprintf("%d|%d|%d", opts.Seed, len(obs), now.UnixNano())))
	return &TrainedModel{
		f:        f,
		capacity: capacity,
		version:  hex.EncodeToString(sum[:8]),
		diag:     diag,
	}, nil
}

func holdoutMetrics(f *forest, xs []FeatureVector, y []float64, testIdx []int) (r2, mae float64) {
	var mean float64
	for _, i := range testIdx {
		mean += y[i]
	}
	mean /= float64(len(testIdx))

	var ssRes, ssTot, absErr float64
	for _, i := range testIdx {
		pred := math.Max(0, f.predict(xs[i]))
		ssRes += (y[i] - pred) * (y[i] - pred)
		ssTot += (y[i] - mean) * (y[i] - mean)
		absErr += math.Abs(y[i] - pred)
	}
	mae = absErr / float64(len(testIdx))
	if ssTot == 0 {
		// constant target: perfect if residuals vanish, else uninformative
		if ssRes == 0 {
			return 1, mae
		}
		return 0, mae
	}
	return 1 - ssRes/ssTot, mae
}

// Predict returns the ensemble's demand estimate for an encoded vector.
// Negative raw outputs clip to zero; capacity capping is deliberately left
// to the optimizer, since the model carries a latent demand signal that
// may exceed saturation.
func (m *TrainedModel) Predict(fv FeatureVector) (float64, error) {
	if m == nil || m.f == nil {
		return 0, domain.ErrModelNotTrained
	}
	if len(fv) != len(featureNames) {
		return 0, &domain.ValidationError{Field: "feature_vector", Reason: fmt.Sprintf("want %d features, got %d", len(featureNames), len(fv))}
	}
	return math.Max(0, m.f.predict(fv)), nil
}

// EstimateDemand encodes and predicts in one step, satisfying
// domain.DemandEstimator.
func (m *TrainedModel) EstimateDemand(c domain.Context, ownPrice float64) (float64, error) {
	if m == nil || m.f == nil {
		return 0, domain.ErrModelNotTrained
	}
	fv, err := Encode(c, ownPrice)
	if err != nil {
		return 0, err
	}
	return m.Predict(fv)
}

// Evaluate returns the diagnostics captured at training time. Read-only.
func (m *TrainedModel) Evaluate() (Diagnostics, error) {
	if m == nil || m.f == nil {
		return Diagnostics{}, domain.ErrModelNotTrained
	}
	return m.diag, nil
}

// Capacity is the room count supplied at training time.
func (m *TrainedModel) Capacity() float64 { return m.capacity }

// Version identifies this training run; it changes on every retrain, which
// naturally expires cached results keyed by it.
func (m *TrainedModel) Version() string { return m.version }
