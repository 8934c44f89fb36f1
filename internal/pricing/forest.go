package pricing

import "math/rand"

type forestConfig struct {
	trees       int
	maxDepth    int
	minLeaf     int
	maxFeatures int
}

// forest is a bagged ensemble of randomized regression trees averaged at
// prediction time. Immutable once fitted.
type forest struct {
	trees      []*regressionTree
	importance []float64 // per feature, normalized to sum to 1
}

// fitForest trains the ensemble. Each tree gets a bootstrap sample and an
// rng seeded from the parent rng, so the whole fit is a pure function of
// (data, config, seed).
func fitForest(xs []FeatureVector, y []float64, cfg forestConfig, rng *rand.Rand) *forest {
	imp := make([]float64, len(featureNames))
	trees := make([]*regressionTree, cfg.trees)
	tc := treeConfig{maxDepth: cfg.maxDepth, minLeaf: cfg.minLeaf, maxFeatures: cfg.maxFeatures}

	for t := range trees {
		treeRng := rand.New(rand.NewSource(rng.Int63()))
		boot := make([]int, len(y))
		for i := range boot {
			boot[i] = treeRng.Intn(len(y))
		}
		trees[t] = growTree(xs, y, boot, tc, treeRng, imp)
	}

	var total float64
	for _, v := range imp {
		total += v
	}
	if total > 0 {
		for i := range imp {
			imp[i] /= total
		}
	}
	return &forest{trees: trees, importance: imp}
}

func (f *forest) predict(x FeatureVector) float64 {
	var s float64
	for _, t := range f.trees {
		s += t.predict(x)
	}
	return s / float64(len(f.trees))
}
