package mlmodel

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Artifact keys inside the model store. Loading any of them can only happen
// once, at startup; a missing or corrupt artifact is fatal.
const (
	ArtifactCropModel         = "crop_model.gob"
	ArtifactFertilizerModel   = "fertilizer_model.gob"
	ArtifactFertilizerLabels  = "fertilizer_labels.gob"
	ArtifactYieldModel        = "yield_model.gob"
	ArtifactYieldPreprocessor = "yield_preprocessor.gob"
)

// Label codec domains inside the fertilizer labels artifact.
const (
	DomainSoilType   = "Soil_Type"
	DomainCropType   = "Crop_Type"
	DomainFertilizer = "Fertilizer"
)

// CropArtifact bundles the crop forest with its class labels, so the
// classifier's integer output decodes to a crop name without a separate
// artifact.
type CropArtifact struct {
	Model   *Forest
	Classes []string
}

func EncodeArtifact(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeArtifact(data []byte, dst interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(dst); err != nil {
		return fmt.Errorf("decode artifact: %w", err)
	}
	return nil
}
