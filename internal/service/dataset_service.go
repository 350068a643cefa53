package service

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/resumechat/internal/config"
	"github.com/xxxsen/resumechat/internal/dataset"
	"github.com/xxxsen/resumechat/internal/model"
)

// DatasetService owns the on-disk pipeline artifacts: the extracted
// profile, the authored QA pairs and the generated training dataset.
type DatasetService struct {
	cfg config.PipelineConfig
}

func NewDatasetService(cfg config.PipelineConfig) *DatasetService {
	return &DatasetService{cfg: cfg}
}

func (s *DatasetService) ProfilePath() string {
	return filepath.Join(s.cfg.DataDir, s.cfg.ProfileFile)
}

func (s *DatasetService) DatasetPath() string {
	return filepath.Join(s.cfg.DataDir, s.cfg.DatasetFile)
}

// ArtifactDir is where a fine tuned model for the configured base model
// gets installed.
func (s *DatasetService) ArtifactDir() string {
	name := "fine_tuned_" + strings.ReplaceAll(s.cfg.BaseModel, "/", "_")
	return filepath.Join(s.cfg.ModelsDir, name)
}

func (s *DatasetService) SaveProfile(ctx context.Context, profile *model.ResumeProfile) error {
	if err := dataset.SaveProfile(s.ProfilePath(), profile); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("resume profile saved", zap.String("path", s.ProfilePath()))
	return nil
}

func (s *DatasetService) LoadProfile(ctx context.Context) (*model.ResumeProfile, error) {
	return dataset.LoadProfile(s.ProfilePath())
}

func (s *DatasetService) LoadQAPairs(ctx context.Context) ([]model.QAPair, error) {
	return dataset.LoadQAPairs(s.cfg.QAPath)
}

// Prepare merges the extracted profile with the authored QA pairs into
// the training dataset file.
func (s *DatasetService) Prepare(ctx context.Context) ([]model.TrainingExample, error) {
	logger := logutil.GetLogger(ctx)
	profile, err := s.LoadProfile(ctx)
	if err != nil {
		return nil, err
	}
	pairs, err := s.LoadQAPairs(ctx)
	if err != nil {
		return nil, err
	}
	examples, err := dataset.Build(profile, pairs)
	if err != nil {
		return nil, err
	}
	if err := dataset.SaveExamples(s.DatasetPath(), examples); err != nil {
		return nil, err
	}
	logger.Info("training dataset prepared",
		zap.Int("examples", len(examples)),
		zap.String("path", s.DatasetPath()))
	return examples, nil
}

func (s *DatasetService) LoadExamples(ctx context.Context) ([]model.TrainingExample, error) {
	return dataset.LoadExamples(s.DatasetPath())
}
