package model

// Collection names, one per prediction endpoint. They double as table names.
const (
	CollectionCropPredictions           = "crop_predictions"
	CollectionFertilizerRecommendations = "fertilizer_recommendations"
	CollectionYieldPredictions          = "yield_predictions"
)

// PredictionRecord is one persisted prediction, owned by a user. Fields holds
// the endpoint-specific payload (e.g. cropRecommendation, fertilizerType,
// input columns plus predictedYield) and is never mutated after creation.
type PredictionRecord struct {
	ID        string
	UserID    string
	Fields    map[string]interface{}
	CreatedAt int64
}
