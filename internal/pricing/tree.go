package pricing

import (
	"math/rand"
	"sort"
)

// treeNode is one node of a regression tree. feature == -1 marks a leaf.
type treeNode struct {
	feature     int
	threshold   float64
	value       float64
	left, right *treeNode
}

type treeConfig struct {
	maxDepth    int
	minLeaf     int
	maxFeatures int
}

type regressionTree struct{ root *treeNode }

// growTree fits a CART regression tree on the rows selected by idx
// (duplicates allowed, so bootstrap samples work directly). Split gains
// are accumulated into importance by feature index.
func growTree(xs []FeatureVector, y []float64, idx []int, cfg treeConfig, rng *rand.Rand, importance []float64) *regressionTree {
	return &regressionTree{root: buildNode(xs, y, idx, 0, cfg, rng, importance)}
}

func buildNode(xs []FeatureVector, y []float64, idx []int, depth int, cfg treeConfig, rng *rand.Rand, importance []float64) *treeNode {
	m := meanAt(y, idx)
	if depth >= cfg.maxDepth || len(idx) < 2*cfg.minLeaf {
		return &treeNode{feature: -1, value: m}
	}
	feat, thr, gain, leftIdx, rightIdx := bestSplit(xs, y, idx, cfg, rng)
	if feat < 0 {
		return &treeNode{feature: -1, value: m}
	}
	importance[feat] += gain
	return &treeNode{
		feature:   feat,
		threshold: thr,
		value:     m,
		left:      buildNode(xs, y, leftIdx, depth+1, cfg, rng, importance),
		right:     buildNode(xs, y, rightIdx, depth+1, cfg, rng, importance),
	}
}

// bestSplit evaluates a random feature subset and returns the split that
// maximizes SSE reduction, or feature -1 when no valid split exists.
func bestSplit(xs []FeatureVector, y []float64, idx []int, cfg treeConfig, rng *rand.Rand) (feat int, thr, gain float64, left, right []int) {
	n := len(idx)
	parentSSE := sseAt(y, idx)

	feat = -1
	var bestSorted []int
	var bestPos int

	perm := rng.Perm(len(featureNames))
	tried := cfg.maxFeatures
	if tried > len(perm) {
		tried = len(perm)
	}
	for _, f := range perm[:tried] {
		sorted := make([]int, n)
		copy(sorted, idx)
		// tie-break on row index keeps the ordering deterministic
		sort.Slice(sorted, func(a, b int) bool {
			va, vb := xs[sorted[a]][f], xs[sorted[b]][f]
			if va != vb {
				return va < vb
			}
			return sorted[a] < sorted[b]
		})

		var lSum, lSq float64
		tSum, tSq := sumsAt(y, idx)
		for i := 1; i < n; i++ {
			v := y[sorted[i-1]]
			lSum += v
			lSq += v * v
			if xs[sorted[i]][f] == xs[sorted[i-1]][f] {
				continue // cannot separate identical values
			}
			if i < cfg.minLeaf || n-i < cfg.minLeaf {
				continue
			}
			lSSE := lSq - lSum*lSum/float64(i)
			rSum, rSq := tSum-lSum, tSq-lSq
			rSSE := rSq - rSum*rSum/float64(n-i)
			if g := parentSSE - lSSE - rSSE; g > gain {
				gain = g
				feat = f
				thr = (xs[sorted[i-1]][f] + xs[sorted[i]][f]) / 2
				bestSorted = sorted
				bestPos = i
			}
		}
	}
	if feat < 0 {
		return -1, 0, 0, nil, nil
	}
	left = append([]int(nil), bestSorted[:bestPos]...)
	right = append([]int(nil), bestSorted[bestPos:]...)
	return feat, thr, gain, left, right
}

func (t *regressionTree) predict(x FeatureVector) float64 {
	n := t.root
	for n.feature >= 0 {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var s float64
	for _, i := range idx {
		s += y[i]
	}
	return s / float64(len(idx))
}

func sumsAt(y []float64, idx []int) (sum, sq float64) {
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	return sum, sq
}

func sseAt(y []float64, idx []int) float64 {
	sum, sq := sumsAt(y, idx)
	return sq - sum*sum/float64(len(idx))
}
