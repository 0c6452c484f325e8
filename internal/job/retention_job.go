package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/farmwise/farmwise/internal/model"
	"github.com/farmwise/farmwise/internal/repo"
)

// RetentionJob prunes prediction history older than the configured number of
// days across all three collections.
type RetentionJob struct {
	predictions *repo.PredictionRepo
	days        int
}

func NewRetentionJob(predictions *repo.PredictionRepo, days int) *RetentionJob {
	return &RetentionJob{predictions: predictions, days: days}
}

func (j *RetentionJob) Name() string {
	return "prediction_retention"
}

func (j *RetentionJob) Run(ctx context.Context) error {
	if j.days <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -j.days).Unix()
	collections := []string{
		model.CollectionCropPredictions,
		model.CollectionFertilizerRecommendations,
		model.CollectionYieldPredictions,
	}
	for _, collection := range collections {
		deleted, err := j.predictions.DeleteOlderThan(ctx, collection, cutoff)
		if err != nil {
			return err
		}
		if deleted > 0 {
			logutil.GetLogger(ctx).Info("pruned prediction history",
				zap.String("collection", collection),
				zap.Int64("deleted", deleted),
			)
		}
	}
	return nil
}
