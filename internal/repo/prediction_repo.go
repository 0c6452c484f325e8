package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/farmwise/farmwise/internal/model"
	"github.com/farmwise/farmwise/internal/pkg/dbutil"
)

// PredictionRepo persists prediction records. One repo serves all three
// collections; the collection name selects the table and must be one of the
// model.Collection* constants.
type PredictionRepo struct {
	db *sql.DB
}

func NewPredictionRepo(db *sql.DB) *PredictionRepo {
	return &PredictionRepo{db: db}
}

var knownCollections = map[string]struct{}{
	model.CollectionCropPredictions:           {},
	model.CollectionFertilizerRecommendations: {},
	model.CollectionYieldPredictions:          {},
}

func checkCollection(collection string) error {
	if _, ok := knownCollections[collection]; !ok {
		return fmt.Errorf("unknown prediction collection: %s", collection)
	}
	return nil
}

func (r *PredictionRepo) Insert(ctx context.Context, collection string, rec *model.PredictionRecord) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	payload, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("encode prediction payload: %w", err)
	}
	data := map[string]interface{}{
		"id":         rec.ID,
		"user_id":    rec.UserID,
		"payload":    string(payload),
		"created_at": rec.CreatedAt,
	}
	sqlStr, args, err := builder.BuildInsert(collection, []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// ListByUser returns the user's records newest first. Records of other users
// are never returned.
func (r *PredictionRepo) ListByUser(ctx context.Context, collection, userID string) ([]*model.PredictionRecord, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	where := map[string]interface{}{
		"user_id":  userID,
		"_orderby": "created_at desc",
	}
	sqlStr, args, err := builder.BuildSelect(collection, where, []string{"id", "user_id", "payload", "created_at"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	records := make([]*model.PredictionRecord, 0)
	for rows.Next() {
		var rec model.PredictionRecord
		var payload string
		if err := rows.Scan(&rec.ID, &rec.UserID, &payload, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &rec.Fields); err != nil {
			return nil, fmt.Errorf("decode prediction payload: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// DeleteOlderThan removes records created before the cutoff (unix seconds).
// Used by the retention job.
func (r *PredictionRepo) DeleteOlderThan(ctx context.Context, collection string, cutoff int64) (int64, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	where := map[string]interface{}{"created_at <": cutoff}
	sqlStr, args, err := builder.BuildDelete(collection, where)
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
