package feature

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/farmwise/farmwise/internal/mlmodel"
)

func testCodec() *Codec {
	soil := mlmodel.NewLabelCodec([]string{"Sandy", "Loamy", "Clayey"})
	crop := mlmodel.NewLabelCodec([]string{"Wheat", "Maize", "Sugarcane"})
	return NewCodec(soil, crop)
}

func cropPayload() map[string]interface{} {
	return map[string]interface{}{
		"N": 90.0, "P": 42.0, "K": 43.0,
		"temperature": 20.8, "humidity": 82.0, "ph": 6.5, "rainfall": 202.9,
	}
}

func TestEncodeCropOrderAndLength(t *testing.T) {
	codec := testCodec()
	vector, err := codec.EncodeCrop(cropPayload())
	require.NoError(t, err)
	require.Equal(t, []float64{90, 42, 43, 20.8, 82, 6.5, 202.9}, vector)
}

func TestEncodeCropAcceptsNumericStrings(t *testing.T) {
	codec := testCodec()
	payload := cropPayload()
	payload["ph"] = "6.5"
	vector, err := codec.EncodeCrop(payload)
	require.NoError(t, err)
	require.Equal(t, 6.5, vector[5])
}

func TestEncodeCropMissingFieldNamesField(t *testing.T) {
	codec := testCodec()
	payload := cropPayload()
	delete(payload, "humidity")
	_, err := codec.EncodeCrop(payload)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "humidity", validationErr.Field)
}

func TestEncodeCropNonNumericFieldNamesField(t *testing.T) {
	codec := testCodec()
	payload := cropPayload()
	payload["N"] = "plenty"
	_, err := codec.EncodeCrop(payload)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "N", validationErr.Field)
}

func fertilizerPayload() map[string]interface{} {
	return map[string]interface{}{
		"temperature": 26.0, "humidity": 52.0, "moisture": 38.0,
		"nitrogen": 37.0, "potassium": 0.0, "phosphorous": 0.0,
		"soil_type": "Loamy", "crop_type": "Maize",
	}
}

func TestEncodeFertilizerOrderIncludesCategoryCodes(t *testing.T) {
	codec := testCodec()
	vector, err := codec.EncodeFertilizer(fertilizerPayload())
	require.NoError(t, err)
	// temperature, humidity, moisture, soil code, crop code, N, K, P
	require.Equal(t, []float64{26, 52, 38, 1, 1, 37, 0, 0}, vector)
}

func TestEncodeFertilizerUnknownSoil(t *testing.T) {
	codec := testCodec()
	payload := fertilizerPayload()
	payload["soil_type"] = "Unknown_Soil"
	_, err := codec.EncodeFertilizer(payload)
	var categoryErr *UnknownCategoryError
	require.ErrorAs(t, err, &categoryErr)
	require.Equal(t, "soil_type", categoryErr.Domain)
	require.Equal(t, "Unknown_Soil", categoryErr.Label)
}

func TestEncodeFertilizerUnknownCropType(t *testing.T) {
	codec := testCodec()
	payload := fertilizerPayload()
	payload["crop_type"] = "Dragonfruit"
	_, err := codec.EncodeFertilizer(payload)
	var categoryErr *UnknownCategoryError
	require.ErrorAs(t, err, &categoryErr)
	require.Equal(t, "crop_type", categoryErr.Domain)
}

func yieldPayload() map[string]interface{} {
	return map[string]interface{}{
		"Year":                          2013.0,
		"average_rain_fall_mm_per_year": 1485.0,
		"pesticides_tonnes":             121.0,
		"avg_temp":                      16.37,
		"Area":                          "Albania",
		"Item":                          "Maize",
	}
}

func TestEncodeYield(t *testing.T) {
	codec := testCodec()
	row, err := codec.EncodeYield(yieldPayload())
	require.NoError(t, err)
	require.Equal(t, &mlmodel.YieldRow{
		Year: 2013, Rainfall: 1485, Pesticides: 121, AvgTemp: 16.37,
		Area: "Albania", Item: "Maize",
	}, row)
}

func TestEncodeYieldMissingFieldCheckedBeforeCoercion(t *testing.T) {
	codec := testCodec()
	payload := yieldPayload()
	payload["Year"] = "not-a-year" // would fail coercion
	delete(payload, "Item")
	_, err := codec.EncodeYield(payload)
	var missingErr *MissingFieldError
	require.ErrorAs(t, err, &missingErr)
	require.Equal(t, "Item", missingErr.Field)
	require.Equal(t, "Missing field: Item", err.Error())
}

func TestEncodeYieldFirstMissingFieldInOrder(t *testing.T) {
	codec := testCodec()
	payload := yieldPayload()
	delete(payload, "pesticides_tonnes")
	delete(payload, "Area")
	_, err := codec.EncodeYield(payload)
	var missingErr *MissingFieldError
	require.ErrorAs(t, err, &missingErr)
	require.Equal(t, "pesticides_tonnes", missingErr.Field)
}

func TestEncodeYieldNonIntegerYear(t *testing.T) {
	codec := testCodec()
	payload := yieldPayload()
	payload["Year"] = 2013.5
	_, err := codec.EncodeYield(payload)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "Year", validationErr.Field)
}
