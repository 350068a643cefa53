package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	DBPath            string           `json:"db_path"`
	Port              int              `json:"port"`
	LogConfig         logger.LogConfig `json:"log_config"`
	DocumentStore     StoreConfig      `json:"document_store"`
	Pipeline          PipelineConfig   `json:"pipeline"`
	Trainer           ProviderConfig   `json:"trainer"`
	Inference         InferenceConfig  `json:"inference"`
	Schedule          ScheduleConfig   `json:"schedule"`
	CORSOrigins       []string         `json:"cors_origins"`
	RateLimitSeconds  int              `json:"rate_limit_seconds"`
	DisableSimilarity bool             `json:"disable_similarity"`
}

type StoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// PipelineConfig names the filesystem artifacts the four stages pass to
// each other and the base model the fine-tune stage starts from.
type PipelineConfig struct {
	DataDir     string `json:"data_dir"`
	ModelsDir   string `json:"models_dir"`
	QAPath      string `json:"qa_path"`
	ProfileFile string `json:"profile_file"`
	DatasetFile string `json:"dataset_file"`
	BaseModel   string `json:"base_model"`
}

type ProviderConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type InferenceConfig struct {
	Type             string      `json:"type"`
	Data             interface{} `json:"data"`
	Model            string      `json:"model"`
	TimeoutSeconds   int         `json:"timeout_seconds"`
	MaxQuestionChars int         `json:"max_question_chars"`
}

type ScheduleConfig struct {
	RetrainSpec      string `json:"retrain_spec"`
	ChatLogCleanSpec string `json:"chatlog_clean_spec"`
	ChatLogKeepDays  int    `json:"chatlog_keep_days"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db_path is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.DocumentStore.Type == "" {
		return nil, fmt.Errorf("document_store.type is required")
	}
	if cfg.Pipeline.DataDir == "" {
		cfg.Pipeline.DataDir = "data"
	}
	if cfg.Pipeline.ModelsDir == "" {
		cfg.Pipeline.ModelsDir = "models"
	}
	if cfg.Pipeline.QAPath == "" {
		return nil, fmt.Errorf("pipeline.qa_path is required")
	}
	if cfg.Pipeline.ProfileFile == "" {
		cfg.Pipeline.ProfileFile = "resume_data.json"
	}
	if cfg.Pipeline.DatasetFile == "" {
		cfg.Pipeline.DatasetFile = "fine_tuning_data.json"
	}
	if cfg.Pipeline.BaseModel == "" {
		cfg.Pipeline.BaseModel = "bert-base-uncased"
	}
	if cfg.Trainer.Type == "" {
		return nil, fmt.Errorf("trainer.type is required")
	}
	if cfg.Inference.Type == "" {
		return nil, fmt.Errorf("inference.type is required")
	}
	if cfg.Inference.TimeoutSeconds == 0 {
		cfg.Inference.TimeoutSeconds = 30
	}
	if cfg.Inference.MaxQuestionChars == 0 {
		cfg.Inference.MaxQuestionChars = 2000
	}
	if cfg.Schedule.ChatLogKeepDays == 0 {
		cfg.Schedule.ChatLogKeepDays = 30
	}
	return &cfg, nil
}
