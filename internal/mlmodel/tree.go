// Package mlmodel holds the in-process predictive artifacts: CART trees, a
// bagged forest, the categorical codecs and the fitted yield preprocessor.
// Artifacts are gob-serialized, loaded once at startup and read-only for the
// process lifetime.
package mlmodel

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrCodeOutOfRange marks a class code the label codec cannot decode.
	ErrCodeOutOfRange = errors.New("label code out of range")
	// ErrInference wraps failures inside a model's predict call.
	ErrInference = errors.New("model inference failed")
)

// Node is one tree node. Internal nodes route on Feature <= Threshold;
// leaves carry Class (classifier) or Value (regressor). Fields are exported
// for gob.
type Node struct {
	Leaf      bool
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
	Class     int
	Value     float64
}

// DecisionTree is a CART-style classifier over dense integer class codes.
type DecisionTree struct {
	MaxDepth        int // 0 means unlimited
	MinSamplesSplit int
	NumFeatures     int
	NumClasses      int
	Root            *Node
}

func NewDecisionTree(maxDepth, minSamplesSplit int) *DecisionTree {
	if minSamplesSplit < 2 {
		minSamplesSplit = 2
	}
	return &DecisionTree{MaxDepth: maxDepth, MinSamplesSplit: minSamplesSplit}
}

// Fit trains the tree. X is n rows of equal width, y holds class codes in
// [0, numClasses).
func (t *DecisionTree) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("dtree: empty training set")
	}
	if len(X) != len(y) {
		return errors.New("dtree: X and y length mismatch")
	}
	t.NumFeatures = len(X[0])
	for _, label := range y {
		if label < 0 {
			return errors.New("dtree: negative class code")
		}
		if label+1 > t.NumClasses {
			t.NumClasses = label + 1
		}
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.Root = t.buildNode(X, y, idx, 0)
	return nil
}

func (t *DecisionTree) buildNode(X [][]float64, y []int, idx []int, depth int) *Node {
	counts := make([]int, t.NumClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	majority := argmax(counts)
	if isPure(counts) || len(idx) < t.MinSamplesSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return &Node{Leaf: true, Class: majority}
	}
	split, ok := bestGiniSplit(X, y, idx, t.NumFeatures, t.NumClasses)
	if !ok {
		return &Node{Leaf: true, Class: majority}
	}
	return &Node{
		Feature:   split.feature,
		Threshold: split.threshold,
		Left:      t.buildNode(X, y, split.left, depth+1),
		Right:     t.buildNode(X, y, split.right, depth+1),
	}
}

// Predict returns the class code for one feature vector.
func (t *DecisionTree) Predict(x []float64) (int, error) {
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
	return node.Class, nil
}

type splitResult struct {
	feature   int
	threshold float64
	left      []int
	right     []int
}

func bestGiniSplit(X [][]float64, y []int, idx []int, numFeatures, numClasses int) (splitResult, bool) {
	parentCounts := make([]int, numClasses)
	for _, i := range idx {
		parentCounts[y[i]]++
	}
	parentGini := giniFromCounts(parentCounts, len(idx))

	best := splitResult{}
	bestGain := 0.0
	order := make([]int, len(idx))
	for f := 0; f < numFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		leftCounts := make([]int, numClasses)
		rightCounts := make([]int, numClasses)
		copy(rightCounts, parentCounts)
		for pos := 0; pos < len(order)-1; pos++ {
			label := y[order[pos]]
			leftCounts[label]++
			rightCounts[label]--
			if X[order[pos]][f] == X[order[pos+1]][f] {
				continue
			}
			nLeft := pos + 1
			nRight := len(order) - nLeft
			weighted := (float64(nLeft)*giniFromCounts(leftCounts, nLeft) +
				float64(nRight)*giniFromCounts(rightCounts, nRight)) / float64(len(order))
			gain := parentGini - weighted
			if gain > bestGain {
				threshold := (X[order[pos]][f] + X[order[pos+1]][f]) / 2
				left := make([]int, nLeft)
				copy(left, order[:nLeft])
				right := make([]int, nRight)
				copy(right, order[nLeft:])
				best = splitResult{feature: f, threshold: threshold, left: left, right: right}
				bestGain = gain
			}
		}
	}
	return best, bestGain > 0
}

func giniFromCounts(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	sumSq := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		sumSq += p * p
	}
	return 1 - sumSq
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func argmax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}
