package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/resumechat/internal/model"
	appErr "github.com/xxxsen/resumechat/internal/pkg/errors"
	"github.com/xxxsen/resumechat/internal/repo"
	"github.com/xxxsen/resumechat/internal/trainer"
)

// TrainingService runs fine tuning jobs and keeps their history.
type TrainingService struct {
	runs      *repo.TrainingRunRepo
	trainer   trainer.ITrainer
	datasets  *DatasetService
	baseModel string
}

func NewTrainingService(runs *repo.TrainingRunRepo, tr trainer.ITrainer, datasets *DatasetService, baseModel string) *TrainingService {
	return &TrainingService{
		runs:      runs,
		trainer:   tr,
		datasets:  datasets,
		baseModel: baseModel,
	}
}

// StartRun loads the prepared dataset and drives one fine tuning job to
// completion, recording the outcome.
func (s *TrainingService) StartRun(ctx context.Context) (*model.TrainingRun, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("base_model", s.baseModel))
	examples, err := s.datasets.LoadExamples(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	run := &model.TrainingRun{
		ID:          newID(),
		BaseModel:   s.baseModel,
		DatasetPath: s.datasets.DatasetPath(),
		Status:      model.RunStatusPending,
		Ctime:       now,
		Mtime:       now,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("run_id", run.ID))
	if err := s.runs.UpdateStatus(ctx, run.ID, model.RunStatusRunning, "", ""); err != nil {
		return nil, err
	}
	run.Status = model.RunStatusRunning
	logger.Info("fine tuning started", zap.Int("examples", len(examples)))

	staging := s.datasets.ArtifactDir() + ".stage-" + run.ID
	result, err := s.trainer.Train(ctx, &trainer.Request{
		BaseModel: s.baseModel,
		Examples:  examples,
		OutputDir: staging,
	})
	if err == nil {
		err = installArtifact(result.ArtifactPath, s.datasets.ArtifactDir())
	}
	if err != nil {
		logger.Error("fine tuning failed", zap.Error(err))
		if uerr := s.runs.UpdateStatus(ctx, run.ID, model.RunStatusFailed, "", err.Error()); uerr != nil {
			logger.Error("failed to record run failure", zap.Error(uerr))
		}
		run.Status = model.RunStatusFailed
		run.Error = err.Error()
		return run, err
	}
	artifact := s.datasets.ArtifactDir()
	if err := s.runs.UpdateStatus(ctx, run.ID, model.RunStatusSucceeded, artifact, ""); err != nil {
		return nil, err
	}
	run.Status = model.RunStatusSucceeded
	run.ArtifactPath = artifact
	logger.Info("fine tuning finished", zap.String("artifact", artifact))
	return run, nil
}

// installArtifact replaces the previous model directory wholesale. The
// produced weights land in a staging directory first so a failed run never
// leaves a half-written artifact behind.
func installArtifact(staging, final string) error {
	if _, err := os.Stat(staging); err != nil {
		return fmt.Errorf("%w: expected weights at %s: %v", appErr.ErrNoArtifact, staging, err)
	}
	old := final + ".old"
	_ = os.RemoveAll(old)
	if _, err := os.Stat(final); err == nil {
		if err := os.Rename(final, old); err != nil {
			return err
		}
	}
	if err := os.Rename(staging, final); err != nil {
		return err
	}
	_ = os.RemoveAll(old)
	return nil
}

func (s *TrainingService) ListRuns(ctx context.Context, limit, offset int) ([]model.TrainingRun, error) {
	return s.runs.List(ctx, limit, offset)
}

func (s *TrainingService) GetRun(ctx context.Context, id string) (*model.TrainingRun, error) {
	return s.runs.Get(ctx, id)
}

// DatasetIsNewer reports whether the dataset file changed after the last
// successful run finished.
func (s *TrainingService) DatasetIsNewer(ctx context.Context) (bool, error) {
	info, err := os.Stat(s.datasets.DatasetPath())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	latest, err := s.runs.LatestSucceeded(ctx)
	if err != nil {
		// no successful run yet, any dataset counts as new
		return true, nil
	}
	return info.ModTime().UnixMilli() > latest.Mtime, nil
}
