package trainer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xxxsen/resumechat/internal/model"
)

const (
	defaultPollInterval = 5 * time.Second

	jobStatusPending   = "pending"
	jobStatusRunning   = "running"
	jobStatusSucceeded = "succeeded"
	jobStatusFailed    = "failed"
)

type hfServerConfig struct {
	BaseURL             string `json:"base_url"`
	PollIntervalSeconds int    `json:"poll_interval_seconds"`
}

// hfServerTrainer drives a question answering fine tuning job running on
// a transformers training server that shares the models directory.
type hfServerTrainer struct {
	baseURL      string
	pollInterval time.Duration
	client       *http.Client
}

type hfJobRequest struct {
	BaseModel string                  `json:"base_model"`
	OutputDir string                  `json:"output_dir"`
	Examples  []model.TrainingExample `json:"examples"`
}

type hfJobState struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Error        string `json:"error"`
	ArtifactPath string `json:"artifact_path"`
}

func (t *hfServerTrainer) Name() string {
	return "hfserver"
}

func (t *hfServerTrainer) Train(ctx context.Context, req *Request) (*Result, error) {
	if len(req.Examples) == 0 {
		return nil, fmt.Errorf("training request has no examples")
	}
	job, err := t.submit(ctx, req)
	if err != nil {
		return nil, err
	}
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
		state, err := t.poll(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		switch state.Status {
		case jobStatusPending, jobStatusRunning:
			continue
		case jobStatusSucceeded:
			if state.ArtifactPath == "" {
				return nil, fmt.Errorf("training job %s finished without an artifact", job.ID)
			}
			return &Result{ArtifactPath: state.ArtifactPath}, nil
		case jobStatusFailed:
			return nil, fmt.Errorf("training job %s failed: %s", job.ID, state.Error)
		default:
			return nil, fmt.Errorf("training job %s in unknown state: %s", job.ID, state.Status)
		}
	}
}

func (t *hfServerTrainer) submit(ctx context.Context, req *Request) (*hfJobState, error) {
	body := hfJobRequest{
		BaseModel: req.BaseModel,
		OutputDir: req.OutputDir,
		Examples:  req.Examples,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var job hfJobState
	if err := t.do(ctx, http.MethodPost, "/v1/jobs", data, &job); err != nil {
		return nil, err
	}
	if job.ID == "" {
		return nil, fmt.Errorf("training server returned no job id")
	}
	return &job, nil
}

func (t *hfServerTrainer) poll(ctx context.Context, id string) (*hfJobState, error) {
	var state hfJobState
	if err := t.do(ctx, http.MethodGet, "/v1/jobs/"+id, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (t *hfServerTrainer) do(ctx context.Context, method string, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("training server request failed: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func createHFServerTrainer(args interface{}) (ITrainer, error) {
	cfg := &hfServerConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(strings.TrimRight(cfg.BaseURL, "/"))
	if baseURL == "" {
		return nil, fmt.Errorf("training server base_url is required")
	}
	interval := defaultPollInterval
	if cfg.PollIntervalSeconds > 0 {
		interval = time.Duration(cfg.PollIntervalSeconds) * time.Second
	}
	return &hfServerTrainer{
		baseURL:      baseURL,
		pollInterval: interval,
		client:       &http.Client{},
	}, nil
}

func init() {
	Register("hfserver", createHFServerTrainer)
}
