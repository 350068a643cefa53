package repo

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/resumechat/internal/model"
	appErr "github.com/xxxsen/resumechat/internal/pkg/errors"
)

func newTestDB(t *testing.T) *sql.DB {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, ApplyMigrations(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestTrainingRunRepo_CreateGetUpdate(t *testing.T) {
	repo := NewTrainingRunRepo(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UnixMilli()
	run := &model.TrainingRun{
		ID:          "run-1",
		BaseModel:   "bert-base-uncased",
		DatasetPath: "data/fine_tuning_data.json",
		Status:      model.RunStatusPending,
		Ctime:       now,
		Mtime:       now,
	}
	require.NoError(t, repo.Create(ctx, run))

	got, err := repo.Get(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, model.RunStatusPending, got.Status)

	require.NoError(t, repo.UpdateStatus(ctx, "run-1", model.RunStatusSucceeded, "models/fine_tuned_bert", ""))
	got, err = repo.Get(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, model.RunStatusSucceeded, got.Status)
	require.Equal(t, "models/fine_tuned_bert", got.ArtifactPath)
}

func TestTrainingRunRepo_GetMissing(t *testing.T) {
	repo := NewTrainingRunRepo(newTestDB(t))
	_, err := repo.Get(context.Background(), "absent")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestTrainingRunRepo_UpdateMissing(t *testing.T) {
	repo := NewTrainingRunRepo(newTestDB(t))
	err := repo.UpdateStatus(context.Background(), "absent", model.RunStatusFailed, "", "boom")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestTrainingRunRepo_ListAndLatest(t *testing.T) {
	repo := NewTrainingRunRepo(newTestDB(t))
	ctx := context.Background()
	for i, status := range []string{model.RunStatusFailed, model.RunStatusSucceeded, model.RunStatusSucceeded} {
		run := &model.TrainingRun{
			ID:          "run-" + string(rune('a'+i)),
			BaseModel:   "bert-base-uncased",
			DatasetPath: "data/fine_tuning_data.json",
			Status:      status,
			Ctime:       int64(1000 + i),
			Mtime:       int64(1000 + i),
		}
		if status == model.RunStatusSucceeded {
			run.ArtifactPath = "models/fine_tuned_bert"
		}
		require.NoError(t, repo.Create(ctx, run))
	}

	runs, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	require.Equal(t, "run-c", runs[0].ID)

	latest, err := repo.LatestSucceeded(ctx)
	require.NoError(t, err)
	require.Equal(t, "run-c", latest.ID)
}

func TestTrainingRunRepo_LatestSucceededEmpty(t *testing.T) {
	repo := NewTrainingRunRepo(newTestDB(t))
	_, err := repo.LatestSucceeded(context.Background())
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestChatLogRepo_CreateListPurge(t *testing.T) {
	repo := NewChatLogRepo(newTestDB(t))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		log := &model.ChatLog{
			ID:         "log-" + string(rune('a'+i)),
			Question:   "who is this?",
			Answer:     "john smith",
			ExactMatch: i % 2,
			LatencyMs:  12,
			Ctime:      int64(1000 + i),
		}
		require.NoError(t, repo.Create(ctx, log))
	}

	logs, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "log-c", logs[0].ID)

	byIDs, err := repo.ListByIDs(ctx, []string{"log-a", "log-c"})
	require.NoError(t, err)
	require.Len(t, byIDs, 2)

	purged, err := repo.PurgeBefore(ctx, 1002)
	require.NoError(t, err)
	require.EqualValues(t, 2, purged)

	logs, err = repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "log-c", logs[0].ID)
}

func TestChatLogRepo_ListByIDsEmpty(t *testing.T) {
	repo := NewChatLogRepo(newTestDB(t))
	logs, err := repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, logs)
}
