package trainer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xxxsen/resumechat/internal/model"
)

// Request describes one fine tuning job.
type Request struct {
	BaseModel string
	Examples  []model.TrainingExample
	OutputDir string
}

// Result reports where the produced artifact lives.
type Result struct {
	ArtifactPath string
}

// ITrainer runs a fine tuning job to completion.
type ITrainer interface {
	Name() string
	Train(ctx context.Context, req *Request) (*Result, error)
}

type TrainerFactory func(args interface{}) (ITrainer, error)

var registry = map[string]TrainerFactory{}

func Register(name string, factory TrainerFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func New(name string, args interface{}) (ITrainer, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("trainer.type is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported trainer: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("trainer config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode trainer config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode trainer config: %w", err)
	}
	return nil
}
