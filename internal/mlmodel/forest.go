package mlmodel

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

// Forest is a bagged ensemble of decision trees with majority voting. The
// crop classifier ships as one of these.
type Forest struct {
	NEstimators int
	MaxDepth    int
	Seed        int64
	Trees       []*DecisionTree
	NumClasses  int
}

func NewForest(nEstimators, maxDepth int, seed int64) *Forest {
	if nEstimators <= 0 {
		nEstimators = 10
	}
	return &Forest{NEstimators: nEstimators, MaxDepth: maxDepth, Seed: seed}
}

// Fit trains each tree on a bootstrap sample, one goroutine per tree.
func (f *Forest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("forest: empty training set")
	}
	if len(X) != len(y) {
		return errors.New("forest: X and y length mismatch")
	}
	for _, label := range y {
		if label+1 > f.NumClasses {
			f.NumClasses = label + 1
		}
	}
	n := len(X)
	f.Trees = make([]*DecisionTree, f.NEstimators)
	var wg sync.WaitGroup
	errCh := make(chan error, f.NEstimators)
	for i := 0; i < f.NEstimators; i++ {
		wg.Add(1)
		go func(treeIdx int) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(f.Seed + int64(treeIdx)))
			sampleX := make([][]float64, n)
			sampleY := make([]int, n)
			for j := 0; j < n; j++ {
				pick := rnd.Intn(n)
				sampleX[j] = X[pick]
				sampleY[j] = y[pick]
			}
			tree := NewDecisionTree(f.MaxDepth, 2)
			// keep leaf codes aligned even when a bootstrap misses a class
			tree.NumClasses = f.NumClasses
			if err := tree.Fit(sampleX, sampleY); err != nil {
				errCh <- err
				return
			}
			f.Trees[treeIdx] = tree
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// Predict returns the majority class code across all trees.
func (f *Forest) Predict(x []float64) (int, error) {
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("%w: forest not fitted", ErrInference)
	}
	votes := make([]int, f.NumClasses)
	for _, tree := range f.Trees {
		class, err := tree.Predict(x)
		if err != nil {
			return 0, err
		}
		if class >= 0 && class < len(votes) {
			votes[class]++
		}
	}
	return argmax(votes), nil
}
