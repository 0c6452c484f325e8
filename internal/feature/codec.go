// Package feature turns raw request payloads into the exact vectors the
// trained models expect. Payloads arrive as open JSON objects because each
// model has its own arity, ordering and failure semantics; the codec walks
// them field by field in training-column order.
package feature

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/farmwise/farmwise/internal/mlmodel"
)

// CropFields is the crop classifier's training column order.
var CropFields = []string{"N", "P", "K", "temperature", "humidity", "ph", "rainfall"}

// YieldFields is the required-field order the yield endpoint checks before
// any coercion happens.
var YieldFields = []string{"Year", "average_rain_fall_mm_per_year", "pesticides_tonnes", "avg_temp", "Area", "Item"}

// Codec owns the categorical encodings the fertilizer model needs. The
// codecs are frozen training-time artifacts; lookups never mutate them.
type Codec struct {
	soil *mlmodel.LabelCodec
	crop *mlmodel.LabelCodec
}

func NewCodec(soil, crop *mlmodel.LabelCodec) *Codec {
	return &Codec{soil: soil, crop: crop}
}

// EncodeCrop builds the seven-feature crop vector. It fails on the first
// missing or non-numeric field, naming it.
func (cd *Codec) EncodeCrop(payload map[string]interface{}) ([]float64, error) {
	vector := make([]float64, 0, len(CropFields))
	for _, field := range CropFields {
		value, err := numericField(payload, field)
		if err != nil {
			return nil, err
		}
		vector = append(vector, value)
	}
	return vector, nil
}

// EncodeFertilizer builds the fertilizer vector in training column order:
// temperature, humidity, moisture, soil code, crop code, nitrogen, potassium,
// phosphorous. Unknown soil or crop labels are rejected explicitly rather
// than crashing inside the encoder.
func (cd *Codec) EncodeFertilizer(payload map[string]interface{}) ([]float64, error) {
	soilCode, err := cd.categoryField(payload, "soil_type", cd.soil)
	if err != nil {
		return nil, err
	}
	cropCode, err := cd.categoryField(payload, "crop_type", cd.crop)
	if err != nil {
		return nil, err
	}
	vector := make([]float64, 0, 8)
	for _, field := range []string{"temperature", "humidity", "moisture"} {
		value, err := numericField(payload, field)
		if err != nil {
			return nil, err
		}
		vector = append(vector, value)
	}
	vector = append(vector, float64(soilCode), float64(cropCode))
	for _, field := range []string{"nitrogen", "potassium", "phosphorous"} {
		value, err := numericField(payload, field)
		if err != nil {
			return nil, err
		}
		vector = append(vector, value)
	}
	return vector, nil
}

// EncodeYield checks presence of every required field up front, in order,
// before coercing anything. The first absent field is reported as
// MissingFieldError; coercion failures afterwards surface as
// ValidationError.
func (cd *Codec) EncodeYield(payload map[string]interface{}) (*mlmodel.YieldRow, error) {
	for _, field := range YieldFields {
		if _, ok := payload[field]; !ok {
			return nil, &MissingFieldError{Field: field}
		}
	}
	year, err := integerField(payload, "Year")
	if err != nil {
		return nil, err
	}
	row := &mlmodel.YieldRow{Year: year}
	if row.Rainfall, err = numericField(payload, "average_rain_fall_mm_per_year"); err != nil {
		return nil, err
	}
	if row.Pesticides, err = numericField(payload, "pesticides_tonnes"); err != nil {
		return nil, err
	}
	if row.AvgTemp, err = numericField(payload, "avg_temp"); err != nil {
		return nil, err
	}
	if row.Area, err = stringField(payload, "Area"); err != nil {
		return nil, err
	}
	if row.Item, err = stringField(payload, "Item"); err != nil {
		return nil, err
	}
	return row, nil
}

func (cd *Codec) categoryField(payload map[string]interface{}, field string, codec *mlmodel.LabelCodec) (int, error) {
	label, err := stringField(payload, field)
	if err != nil {
		return 0, err
	}
	code, ok := codec.Encode(label)
	if !ok {
		return 0, &UnknownCategoryError{Domain: field, Label: label}
	}
	return code, nil
}

func numericField(payload map[string]interface{}, field string) (float64, error) {
	raw, ok := payload[field]
	if !ok || raw == nil {
		return 0, &ValidationError{Field: field}
	}
	value, ok := toFloat(raw)
	if !ok {
		return 0, &ValidationError{Field: field}
	}
	return value, nil
}

func integerField(payload map[string]interface{}, field string) (int, error) {
	value, err := numericField(payload, field)
	if err != nil {
		return 0, err
	}
	if value != math.Trunc(value) {
		return 0, &ValidationError{Field: field}
	}
	return int(value), nil
}

func stringField(payload map[string]interface{}, field string) (string, error) {
	raw, ok := payload[field]
	if !ok || raw == nil {
		return "", &ValidationError{Field: field}
	}
	value, ok := raw.(string)
	if !ok {
		return "", &ValidationError{Field: field}
	}
	return value, nil
}

func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		value, err := v.Float64()
		return value, err == nil
	case string:
		value, err := strconv.ParseFloat(v, 64)
		return value, err == nil
	default:
		return 0, false
	}
}
