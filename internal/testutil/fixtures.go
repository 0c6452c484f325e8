// Package testutil builds tiny fitted model artifacts for tests. The rules
// are deliberately simple so predictions are deterministic: high-N crop
// payloads classify as rice, low-moisture fertilizer payloads as Urea, and
// the yield leaf means are known exactly.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/farmwise/farmwise/internal/mlmodel"
)

var (
	SoilLabels       = []string{"Sandy", "Loamy", "Clayey"}
	CropTypeLabels   = []string{"Wheat", "Maize", "Sugarcane"}
	FertilizerLabels = []string{"Urea", "DAP"}
	YieldAreas       = []string{"Albania", "India"}
	YieldItems       = []string{"Maize", "Rice"}
)

// AlbaniaMaizeYield is the exact leaf mean for the Albania/Maize training
// rows: (1500.567 + 1500.569) / 2.
const AlbaniaMaizeYield = 1500.568

// WriteArtifacts fits the test models and writes all five gob artifacts into
// dir, so a local artifact store pointed there can feed LoadRegistry.
func WriteArtifacts(t *testing.T, dir string) {
	t.Helper()
	write := func(name string, v interface{}) {
		data, err := mlmodel.EncodeArtifact(v)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	write(mlmodel.ArtifactCropModel, FitCropModel(t))
	write(mlmodel.ArtifactFertilizerModel, FitFertilizerModel(t))
	write(mlmodel.ArtifactFertilizerLabels, map[string]*mlmodel.LabelCodec{
		mlmodel.DomainSoilType:   mlmodel.NewLabelCodec(SoilLabels),
		mlmodel.DomainCropType:   mlmodel.NewLabelCodec(CropTypeLabels),
		mlmodel.DomainFertilizer: mlmodel.NewLabelCodec(FertilizerLabels),
	})
	preprocessor := mlmodel.NewTablePreprocessor(YieldAreas, YieldItems)
	write(mlmodel.ArtifactYieldModel, FitYieldModel(t, preprocessor))
	write(mlmodel.ArtifactYieldPreprocessor, preprocessor)
}

// FitCropModel trains a small forest where N >= 50 means rice, else maize.
func FitCropModel(t *testing.T) *mlmodel.CropArtifact {
	t.Helper()
	var X [][]float64
	var y []int
	for i := 0; i < 6; i++ {
		f := float64(i)
		// maize rows: low N
		X = append(X, []float64{20 + f, 40 + f, 20 + f, 22 + f, 60 + f, 6 + f/10, 80 + f})
		y = append(y, 0)
		// rice rows: high N
		X = append(X, []float64{80 + f, 40 + f, 40 + f, 21 + f, 80 + f, 6.5 + f/10, 200 + f})
		y = append(y, 1)
	}
	forest := mlmodel.NewForest(7, 0, 42)
	require.NoError(t, forest.Fit(X, y))
	return &mlmodel.CropArtifact{Model: forest, Classes: []string{"maize", "rice"}}
}

// FitFertilizerModel trains a tree where moisture <= 40 means Urea (code 0),
// else DAP (code 1). Vector order: temperature, humidity, moisture, soil
// code, crop code, nitrogen, potassium, phosphorous.
func FitFertilizerModel(t *testing.T) *mlmodel.DecisionTree {
	t.Helper()
	var X [][]float64
	var y []int
	for i := 0; i < 6; i++ {
		f := float64(i)
		X = append(X, []float64{26 + f, 52 + f, 30 + f, float64(i % 3), float64(i % 3), 37, 0, 0})
		y = append(y, 0)
		X = append(X, []float64{30 + f, 60 + f, 55 + f, float64(i % 3), float64(i % 3), 12, 10, 13})
		y = append(y, 1)
	}
	tree := mlmodel.NewDecisionTree(0, 2)
	require.NoError(t, tree.Fit(X, y))
	return tree
}

// FitYieldModel trains a regressor over preprocessed rows. Albania/Maize
// rows share identical features with targets 1500.567 and 1500.569, so that
// leaf predicts exactly AlbaniaMaizeYield.
func FitYieldModel(t *testing.T, preprocessor *mlmodel.TablePreprocessor) *mlmodel.RegressionTree {
	t.Helper()
	albania := mlmodel.YieldRow{Year: 2013, Rainfall: 1485, Pesticides: 121, AvgTemp: 16.37, Area: "Albania", Item: "Maize"}
	india := mlmodel.YieldRow{Year: 2000, Rainfall: 1083, Pesticides: 750, AvgTemp: 25.1, Area: "India", Item: "Rice"}
	X := [][]float64{
		preprocessor.Transform(albania),
		preprocessor.Transform(albania),
		preprocessor.Transform(india),
		preprocessor.Transform(india),
	}
	y := []float64{1500.567, 1500.569, 3000.5, 3000.5}
	tree := mlmodel.NewRegressionTree(0, 2)
	require.NoError(t, tree.Fit(X, y))
	return tree
}
