package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/resumechat/internal/model"
	appErr "github.com/xxxsen/resumechat/internal/pkg/errors"
)

var runColumns = []string{"id", "base_model", "dataset_path", "artifact_path", "status", "error", "ctime", "mtime"}

type TrainingRunRepo struct {
	db *sql.DB
}

func NewTrainingRunRepo(db *sql.DB) *TrainingRunRepo {
	return &TrainingRunRepo{db: db}
}

func (r *TrainingRunRepo) Create(ctx context.Context, run *model.TrainingRun) error {
	data := map[string]interface{}{
		"id":            run.ID,
		"base_model":    run.BaseModel,
		"dataset_path":  run.DatasetPath,
		"artifact_path": run.ArtifactPath,
		"status":        run.Status,
		"error":         run.Error,
		"ctime":         run.Ctime,
		"mtime":         run.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("training_runs", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *TrainingRunRepo) UpdateStatus(ctx context.Context, id string, status string, artifactPath string, errMsg string) error {
	where := map[string]interface{}{"id": id}
	update := map[string]interface{}{
		"status": status,
		"error":  errMsg,
		"mtime":  time.Now().UnixMilli(),
	}
	if artifactPath != "" {
		update["artifact_path"] = artifactPath
	}
	sqlStr, args, err := builder.BuildUpdate("training_runs", where, update)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *TrainingRunRepo) Get(ctx context.Context, id string) (*model.TrainingRun, error) {
	where := map[string]interface{}{"id": id}
	sqlStr, args, err := builder.BuildSelect("training_runs", where, runColumns)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (r *TrainingRunRepo) List(ctx context.Context, limit, offset int) ([]model.TrainingRun, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	where := map[string]interface{}{
		"_orderby": "ctime desc",
		"_limit":   []uint{uint(offset), uint(limit)},
	}
	sqlStr, args, err := builder.BuildSelect("training_runs", where, runColumns)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	runs := make([]model.TrainingRun, 0)
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// LatestSucceeded returns the newest run that produced an artifact.
func (r *TrainingRunRepo) LatestSucceeded(ctx context.Context) (*model.TrainingRun, error) {
	where := map[string]interface{}{
		"status":   model.RunStatusSucceeded,
		"_orderby": "ctime desc",
		"_limit":   []uint{0, 1},
	}
	sqlStr, args, err := builder.BuildSelect("training_runs", where, runColumns)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func scanRun(scan func(dest ...interface{}) error) (*model.TrainingRun, error) {
	var run model.TrainingRun
	err := scan(&run.ID, &run.BaseModel, &run.DatasetPath, &run.ArtifactPath, &run.Status, &run.Error, &run.Ctime, &run.Mtime)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
