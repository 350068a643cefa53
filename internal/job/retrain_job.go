package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/resumechat/internal/service"
)

// RetrainJob fine tunes the model again whenever the dataset file has
// changed since the last successful run.
type RetrainJob struct {
	training *service.TrainingService
}

func NewRetrainJob(training *service.TrainingService) *RetrainJob {
	return &RetrainJob{training: training}
}

func (j *RetrainJob) Name() string {
	return "retrain"
}

func (j *RetrainJob) Run(ctx context.Context) error {
	if j.training == nil {
		return nil
	}
	newer, err := j.training.DatasetIsNewer(ctx)
	if err != nil {
		return err
	}
	if !newer {
		logutil.GetLogger(ctx).Debug("dataset unchanged, skipping retrain")
		return nil
	}
	run, err := j.training.StartRun(ctx)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("scheduled retrain finished", zap.String("run_id", run.ID))
	return nil
}
