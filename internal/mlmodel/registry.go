package mlmodel

import (
	"context"
	"fmt"
	"math"

	"github.com/farmwise/farmwise/internal/artifactstore"
)

// Registry holds every loaded predictive artifact. It is constructed once at
// startup and injected where needed; after Load it is read-only and safe for
// unsynchronized concurrent reads.
type Registry struct {
	crop         *CropArtifact
	fertilizer   *DecisionTree
	labels       map[string]*LabelCodec
	yieldModel   *RegressionTree
	preprocessor *TablePreprocessor
}

// LoadRegistry reads all artifacts from the store. Any failure leaves the
// process without a usable model set, so callers treat an error as fatal.
func LoadRegistry(ctx context.Context, store artifactstore.Store) (*Registry, error) {
	r := &Registry{}

	data, err := store.Get(ctx, ArtifactCropModel)
	if err != nil {
		return nil, fmt.Errorf("load crop model: %w", err)
	}
	r.crop = &CropArtifact{}
	if err := DecodeArtifact(data, r.crop); err != nil {
		return nil, fmt.Errorf("load crop model: %w", err)
	}

	data, err = store.Get(ctx, ArtifactFertilizerModel)
	if err != nil {
		return nil, fmt.Errorf("load fertilizer model: %w", err)
	}
	r.fertilizer = &DecisionTree{}
	if err := DecodeArtifact(data, r.fertilizer); err != nil {
		return nil, fmt.Errorf("load fertilizer model: %w", err)
	}

	data, err = store.Get(ctx, ArtifactFertilizerLabels)
	if err != nil {
		return nil, fmt.Errorf("load fertilizer labels: %w", err)
	}
	if err := DecodeArtifact(data, &r.labels); err != nil {
		return nil, fmt.Errorf("load fertilizer labels: %w", err)
	}
	for _, domain := range []string{DomainSoilType, DomainCropType, DomainFertilizer} {
		if r.labels[domain] == nil {
			return nil, fmt.Errorf("fertilizer labels artifact missing domain %s", domain)
		}
	}

	data, err = store.Get(ctx, ArtifactYieldModel)
	if err != nil {
		return nil, fmt.Errorf("load yield model: %w", err)
	}
	r.yieldModel = &RegressionTree{}
	if err := DecodeArtifact(data, r.yieldModel); err != nil {
		return nil, fmt.Errorf("load yield model: %w", err)
	}

	data, err = store.Get(ctx, ArtifactYieldPreprocessor)
	if err != nil {
		return nil, fmt.Errorf("load yield preprocessor: %w", err)
	}
	r.preprocessor = &TablePreprocessor{}
	if err := DecodeArtifact(data, r.preprocessor); err != nil {
		return nil, fmt.Errorf("load yield preprocessor: %w", err)
	}
	if r.yieldModel.NumFeatures != r.preprocessor.NumFeatures() {
		return nil, fmt.Errorf("yield model expects %d features, preprocessor produces %d",
			r.yieldModel.NumFeatures, r.preprocessor.NumFeatures())
	}
	return r, nil
}

// Codec returns the label codec for a fertilizer domain.
func (r *Registry) Codec(domain string) *LabelCodec {
	return r.labels[domain]
}

// PredictCrop classifies the seven-feature crop vector and returns the crop
// name.
func (r *Registry) PredictCrop(vector []float64) (string, error) {
	class, err := r.crop.Model.Predict(vector)
	if err != nil {
		return "", err
	}
	if class < 0 || class >= len(r.crop.Classes) {
		return "", fmt.Errorf("%w: crop class %d with %d classes", ErrCodeOutOfRange, class, len(r.crop.Classes))
	}
	return r.crop.Classes[class], nil
}

// PredictFertilizer classifies the encoded fertilizer vector and decodes the
// predicted code back to a fertilizer name via the reverse label mapping.
func (r *Registry) PredictFertilizer(vector []float64) (string, error) {
	code, err := r.fertilizer.Predict(vector)
	if err != nil {
		return "", err
	}
	return r.labels[DomainFertilizer].Decode(code)
}

// PredictYield runs the raw row through the fitted preprocessor, then the
// regressor. The preprocessing transform belongs to the yield model's
// contract, not to the feature codec.
func (r *Registry) PredictYield(row YieldRow) (float64, error) {
	vector := r.preprocessor.Transform(row)
	value, err := r.yieldModel.Predict(vector)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: non-finite yield prediction", ErrInference)
	}
	return value, nil
}
