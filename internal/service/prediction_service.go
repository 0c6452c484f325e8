package service

import (
	"context"
	"math"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/farmwise/farmwise/internal/feature"
	"github.com/farmwise/farmwise/internal/mlmodel"
	"github.com/farmwise/farmwise/internal/model"
	"github.com/farmwise/farmwise/internal/pkg/timeutil"
)

const recordTimeout = 5 * time.Second

// PredictionRecorder persists prediction records and lists them per user,
// newest first.
type PredictionRecorder interface {
	Insert(ctx context.Context, collection string, rec *model.PredictionRecord) error
	ListByUser(ctx context.Context, collection, userID string) ([]*model.PredictionRecord, error)
}

// PredictionService runs the prediction pipeline: encode the payload, invoke
// the model, record the outcome against the user, shape the result.
// Recording is best-effort: the user already has their answer, so a storage
// fault degrades to a logged warning instead of failing the request.
type PredictionService struct {
	registry *mlmodel.Registry
	codec    *feature.Codec
	recorder PredictionRecorder
}

func NewPredictionService(registry *mlmodel.Registry, recorder PredictionRecorder) *PredictionService {
	codec := feature.NewCodec(
		registry.Codec(mlmodel.DomainSoilType),
		registry.Codec(mlmodel.DomainCropType),
	)
	return &PredictionService{registry: registry, codec: codec, recorder: recorder}
}

func (s *PredictionService) PredictCrop(ctx context.Context, userID string, payload map[string]interface{}) (string, error) {
	vector, err := s.codec.EncodeCrop(payload)
	if err != nil {
		return "", err
	}
	label, err := s.registry.PredictCrop(vector)
	if err != nil {
		return "", err
	}
	s.record(ctx, model.CollectionCropPredictions, userID, map[string]interface{}{
		"cropRecommendation": label,
	})
	return label, nil
}

func (s *PredictionService) PredictFertilizer(ctx context.Context, userID string, payload map[string]interface{}) (string, error) {
	vector, err := s.codec.EncodeFertilizer(payload)
	if err != nil {
		return "", err
	}
	label, err := s.registry.PredictFertilizer(vector)
	if err != nil {
		return "", err
	}
	cropType, _ := payload["crop_type"].(string)
	s.record(ctx, model.CollectionFertilizerRecommendations, userID, map[string]interface{}{
		"fertilizerType": label,
		"crop":           cropType,
	})
	return label, nil
}

// PredictYield returns the regression output rounded to 2 decimal places.
func (s *PredictionService) PredictYield(ctx context.Context, userID string, payload map[string]interface{}) (float64, error) {
	row, err := s.codec.EncodeYield(payload)
	if err != nil {
		return 0, err
	}
	prediction, err := s.registry.PredictYield(*row)
	if err != nil {
		return 0, err
	}
	fields := make(map[string]interface{}, len(payload)+2)
	for k, v := range payload {
		fields[k] = v
	}
	fields["predictedYield"] = prediction
	fields["crop"] = row.Item
	s.record(ctx, model.CollectionYieldPredictions, userID, fields)
	return math.Round(prediction*100) / 100, nil
}

func (s *PredictionService) History(ctx context.Context, collection, userID string) ([]*model.PredictionRecord, error) {
	return s.recorder.ListByUser(ctx, collection, userID)
}

func (s *PredictionService) record(ctx context.Context, collection, userID string, fields map[string]interface{}) {
	rec := &model.PredictionRecord{
		ID:        newID(),
		UserID:    userID,
		Fields:    fields,
		CreatedAt: timeutil.NowUnix(),
	}
	logger := logutil.GetLogger(ctx).With(
		zap.String("collection", collection),
		zap.String("user_id", userID),
	)
	// detached from the request context so a finished response cannot cancel
	// the write
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := s.recorder.Insert(writeCtx, collection, rec); err != nil {
			logger.Warn("record prediction failed", zap.Error(err))
		}
	}()
}
