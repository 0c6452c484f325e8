package repo_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/farmwise/farmwise/internal/config"
	"github.com/farmwise/farmwise/internal/db"
	"github.com/farmwise/farmwise/internal/model"
	appErr "github.com/farmwise/farmwise/internal/pkg/errors"
	"github.com/farmwise/farmwise/internal/repo"
)

// openTestDB connects to the database named by POSTGRES_DSN. Tests are
// skipped when the variable is unset so the suite runs without Postgres.
func openTestDB(t *testing.T) *repoDeps {
	t.Helper()
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	conn, err := db.Open(config.DatabaseConfig{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations(conn))
	t.Cleanup(func() { _ = conn.Close() })
	return &repoDeps{
		users:       repo.NewUserRepo(conn),
		predictions: repo.NewPredictionRepo(conn),
	}
}

type repoDeps struct {
	users       *repo.UserRepo
	predictions *repo.PredictionRepo
}

func uniqueSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

func TestUserRepoCreateAndGet(t *testing.T) {
	deps := openTestDB(t)
	ctx := context.Background()
	now := time.Now().Unix()
	user := &model.User{
		ID:           "u-" + uniqueSuffix(),
		Email:        "farmer-" + uniqueSuffix() + "@example.com",
		Name:         "Farmer",
		PasswordHash: "hash",
		Ctime:        now,
		Mtime:        now,
	}
	require.NoError(t, deps.users.Create(ctx, user))

	got, err := deps.users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, user.Name, got.Name)

	got, err = deps.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, got.Email)

	dup := *user
	dup.ID = "u-" + uniqueSuffix()
	require.ErrorIs(t, deps.users.Create(ctx, &dup), appErr.ErrConflict)
}

func TestUserRepoGetMissing(t *testing.T) {
	deps := openTestDB(t)
	_, err := deps.users.GetByEmail(context.Background(), "nobody-"+uniqueSuffix()+"@example.com")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestPredictionRepoInsertListDelete(t *testing.T) {
	deps := openTestDB(t)
	ctx := context.Background()
	userID := "u-" + uniqueSuffix()
	otherID := "u-" + uniqueSuffix()
	base := time.Now().Unix()

	insert := func(id, user string, createdAt int64, crop string) {
		require.NoError(t, deps.predictions.Insert(ctx, model.CollectionCropPredictions, &model.PredictionRecord{
			ID:        id + "-" + uniqueSuffix(),
			UserID:    user,
			Fields:    map[string]interface{}{"cropRecommendation": crop},
			CreatedAt: createdAt,
		}))
	}
	insert("old", userID, base-100, "rice")
	insert("new", userID, base, "maize")
	insert("other", otherID, base, "jute")

	records, err := deps.predictions.ListByUser(ctx, model.CollectionCropPredictions, userID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "maize", records[0].Fields["cropRecommendation"])
	require.Equal(t, "rice", records[1].Fields["cropRecommendation"])

	deleted, err := deps.predictions.DeleteOlderThan(ctx, model.CollectionCropPredictions, base-50)
	require.NoError(t, err)
	require.GreaterOrEqual(t, deleted, int64(1))

	records, err = deps.predictions.ListByUser(ctx, model.CollectionCropPredictions, userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "maize", records[0].Fields["cropRecommendation"])
}

func TestPredictionRepoRejectsUnknownCollection(t *testing.T) {
	// collection check runs before any query, so no database is needed
	predictions := repo.NewPredictionRepo(nil)
	err := predictions.Insert(context.Background(), "users", &model.PredictionRecord{ID: "x"})
	require.Error(t, err)
	_, err = predictions.ListByUser(context.Background(), "users", "u1")
	require.Error(t, err)
	_, err = predictions.DeleteOlderThan(context.Background(), "users", 0)
	require.Error(t, err)
}
