package model

const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// TrainingRun records one fine-tuning invocation. The artifact it produces
// replaces the previous one wholesale; runs exist only as history.
type TrainingRun struct {
	ID           string `json:"id"`
	BaseModel    string `json:"base_model"`
	DatasetPath  string `json:"dataset_path"`
	ArtifactPath string `json:"artifact_path"`
	Status       string `json:"status"`
	Error        string `json:"error"`
	Ctime        int64  `json:"ctime"`
	Mtime        int64  `json:"mtime"`
}
