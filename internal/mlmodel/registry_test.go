package mlmodel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/farmwise/farmwise/internal/artifactstore"
	"github.com/farmwise/farmwise/internal/config"
	"github.com/farmwise/farmwise/internal/mlmodel"
	"github.com/farmwise/farmwise/internal/testutil"
)

func loadTestRegistry(t *testing.T) *mlmodel.Registry {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteArtifacts(t, dir)
	store, err := artifactstore.New(config.ModelStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": dir},
	})
	require.NoError(t, err)
	registry, err := mlmodel.LoadRegistry(context.Background(), store)
	require.NoError(t, err)
	return registry
}

func TestLoadRegistryMissingArtifactFails(t *testing.T) {
	store, err := artifactstore.New(config.ModelStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)
	_, err = mlmodel.LoadRegistry(context.Background(), store)
	require.Error(t, err)
}

func TestRegistryPredictCrop(t *testing.T) {
	registry := loadTestRegistry(t)

	label, err := registry.PredictCrop([]float64{90, 42, 43, 20.8, 82, 6.5, 202.9})
	require.NoError(t, err)
	require.Equal(t, "rice", label)

	label, err = registry.PredictCrop([]float64{21, 41, 21, 23, 61, 6.1, 81})
	require.NoError(t, err)
	require.Equal(t, "maize", label)
}

func TestRegistryPredictCropWrongArity(t *testing.T) {
	registry := loadTestRegistry(t)
	_, err := registry.PredictCrop([]float64{1, 2, 3})
	require.ErrorIs(t, err, mlmodel.ErrInference)
}

func TestRegistryPredictFertilizerDecodesLabel(t *testing.T) {
	registry := loadTestRegistry(t)

	label, err := registry.PredictFertilizer([]float64{26, 52, 30, 1, 1, 37, 0, 0})
	require.NoError(t, err)
	require.Equal(t, "Urea", label)

	label, err = registry.PredictFertilizer([]float64{30, 60, 58, 0, 2, 12, 10, 13})
	require.NoError(t, err)
	require.Equal(t, "DAP", label)
}

func TestRegistryPredictYield(t *testing.T) {
	registry := loadTestRegistry(t)
	value, err := registry.PredictYield(mlmodel.YieldRow{
		Year: 2013, Rainfall: 1485, Pesticides: 121, AvgTemp: 16.37,
		Area: "Albania", Item: "Maize",
	})
	require.NoError(t, err)
	require.InDelta(t, testutil.AlbaniaMaizeYield, value, 1e-9)
}

func TestRegistryCodecRoundTripAllLabels(t *testing.T) {
	registry := loadTestRegistry(t)
	codec := registry.Codec(mlmodel.DomainFertilizer)
	for _, label := range codec.Labels() {
		code, ok := codec.Encode(label)
		require.True(t, ok)
		decoded, err := codec.Decode(code)
		require.NoError(t, err)
		require.Equal(t, label, decoded)
	}
}
