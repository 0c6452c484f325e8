package mlmodel

import (
	"errors"
	"fmt"
	"sort"
)

// RegressionTree is a CART regressor: variance-reduction splits, mean leaves.
// It backs the yield model.
type RegressionTree struct {
	MaxDepth        int
	MinSamplesSplit int
	NumFeatures     int
	Root            *Node
}

func NewRegressionTree(maxDepth, minSamplesSplit int) *RegressionTree {
	if minSamplesSplit < 2 {
		minSamplesSplit = 2
	}
	return &RegressionTree{MaxDepth: maxDepth, MinSamplesSplit: minSamplesSplit}
}

func (t *RegressionTree) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("regtree: empty training set")
	}
	if len(X) != len(y) {
		return errors.New("regtree: X and y length mismatch")
	}
	t.NumFeatures = len(X[0])
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.Root = t.buildNode(X, y, idx, 0)
	return nil
}

func (t *RegressionTree) buildNode(X [][]float64, y []float64, idx []int, depth int) *Node {
	mean, sse := meanSSE(y, idx)
	if sse == 0 || len(idx) < t.MinSamplesSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return &Node{Leaf: true, Value: mean}
	}
	split, ok := bestVarianceSplit(X, y, idx, t.NumFeatures, sse)
	if !ok {
		return &Node{Leaf: true, Value: mean}
	}
	return &Node{
		Feature:   split.feature,
		Threshold: split.threshold,
		Left:      t.buildNode(X, y, split.left, depth+1),
		Right:     t.buildNode(X, y, split.right, depth+1),
	}
}

func (t *RegressionTree) Predict(x []float64) (float64, error) {
	if t.Root == nil {
		return 0, fmt.Errorf("%w: tree not fitted", ErrInference)
	}
	if len(x) != t.NumFeatures {
		return 0, fmt.Errorf("%w: want %d features, got %d", ErrInference, t.NumFeatures, len(x))
	}
	node := t.Root
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value, nil
}

func bestVarianceSplit(X [][]float64, y []float64, idx []int, numFeatures int, parentSSE float64) (splitResult, bool) {
	best := splitResult{}
	bestGain := 0.0
	order := make([]int, len(idx))
	for f := 0; f < numFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		// running sums allow SSE in O(1) per candidate boundary
		var leftSum, leftSumSq float64
		var totalSum, totalSumSq float64
		for _, i := range order {
			totalSum += y[i]
			totalSumSq += y[i] * y[i]
		}
		for pos := 0; pos < len(order)-1; pos++ {
			v := y[order[pos]]
			leftSum += v
			leftSumSq += v * v
			if X[order[pos]][f] == X[order[pos+1]][f] {
				continue
			}
			nLeft := float64(pos + 1)
			nRight := float64(len(order) - pos - 1)
			leftSSE := leftSumSq - leftSum*leftSum/nLeft
			rightSum := totalSum - leftSum
			rightSSE := (totalSumSq - leftSumSq) - rightSum*rightSum/nRight
			gain := parentSSE - leftSSE - rightSSE
			if gain > bestGain {
				threshold := (X[order[pos]][f] + X[order[pos+1]][f]) / 2
				left := make([]int, pos+1)
				copy(left, order[:pos+1])
				right := make([]int, len(order)-pos-1)
				copy(right, order[pos+1:])
				best = splitResult{feature: f, threshold: threshold, left: left, right: right}
				bestGain = gain
			}
		}
	}
	return best, bestGain > 0
}

func meanSSE(y []float64, idx []int) (float64, float64) {
	if len(idx) == 0 {
		return 0, 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	mean := sum / float64(len(idx))
	var sse float64
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	return mean, sse
}
