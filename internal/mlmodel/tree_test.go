package mlmodel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func separableData() ([][]float64, []int) {
	X := [][]float64{
		{1, 10}, {2, 11}, {3, 9}, {2.5, 10.5},
		{8, 2}, {9, 1}, {7.5, 3}, {8.5, 2.5},
	}
	y := []int{0, 0, 0, 0, 1, 1, 1, 1}
	return X, y
}

func TestDecisionTreeFitPredict(t *testing.T) {
	X, y := separableData()
	tree := NewDecisionTree(0, 2)
	require.NoError(t, tree.Fit(X, y))
	for i, row := range X {
		class, err := tree.Predict(row)
		require.NoError(t, err)
		require.Equal(t, y[i], class)
	}
}

func TestDecisionTreePredictWrongArity(t *testing.T) {
	X, y := separableData()
	tree := NewDecisionTree(0, 2)
	require.NoError(t, tree.Fit(X, y))
	_, err := tree.Predict([]float64{1, 2, 3})
	require.ErrorIs(t, err, ErrInference)
}

func TestDecisionTreeUnfitted(t *testing.T) {
	tree := NewDecisionTree(0, 2)
	_, err := tree.Predict([]float64{1})
	require.ErrorIs(t, err, ErrInference)
}

func TestDecisionTreeGobRoundTrip(t *testing.T) {
	X, y := separableData()
	tree := NewDecisionTree(0, 2)
	require.NoError(t, tree.Fit(X, y))

	data, err := EncodeArtifact(tree)
	require.NoError(t, err)
	restored := &DecisionTree{}
	require.NoError(t, DecodeArtifact(data, restored))

	for i, row := range X {
		class, err := restored.Predict(row)
		require.NoError(t, err)
		require.Equal(t, y[i], class)
	}
}

func TestForestMajorityVote(t *testing.T) {
	X, y := separableData()
	forest := NewForest(9, 0, 1)
	require.NoError(t, forest.Fit(X, y))
	for i, row := range X {
		class, err := forest.Predict(row)
		require.NoError(t, err)
		require.Equal(t, y[i], class)
	}
}

func TestForestUnfitted(t *testing.T) {
	forest := NewForest(3, 0, 1)
	_, err := forest.Predict([]float64{1, 2})
	require.ErrorIs(t, err, ErrInference)
}

func TestRegressionTreeLeafMeans(t *testing.T) {
	X := [][]float64{{1}, {1}, {10}, {10}}
	y := []float64{2.5, 3.5, 20, 22}
	tree := NewRegressionTree(0, 2)
	require.NoError(t, tree.Fit(X, y))

	low, err := tree.Predict([]float64{1})
	require.NoError(t, err)
	require.InDelta(t, 3.0, low, 1e-9)

	high, err := tree.Predict([]float64{10})
	require.NoError(t, err)
	require.InDelta(t, 21.0, high, 1e-9)
}

func TestRegressionTreeEmptyTrainingSet(t *testing.T) {
	tree := NewRegressionTree(0, 2)
	err := tree.Fit(nil, nil)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInference))
}
