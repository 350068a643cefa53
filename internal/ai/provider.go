package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnavailable marks a provider that is configured but cannot serve,
// typically because no model artifact or credential is present yet.
var ErrUnavailable = errors.New("model provider unavailable")

// IProvider answers a question against the resume context.
type IProvider interface {
	Name() string
	Answer(ctx context.Context, model string, question string, resumeText string) (string, error)
}

type IAnswerer interface {
	Answer(ctx context.Context, question string, resumeText string) (string, error)
}

type answerer struct {
	provider IProvider
	model    string
	timeout  time.Duration
}

// NewAnswerer binds a provider to the configured model. A positive
// timeout caps every Answer call regardless of the provider behind it.
func NewAnswerer(p IProvider, model string, timeout time.Duration) IAnswerer {
	return &answerer{provider: p, model: model, timeout: timeout}
}

func (a *answerer) Answer(ctx context.Context, question string, resumeText string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return a.provider.Answer(ctx, a.model, question, resumeText)
}

type ProviderFactory func(args interface{}) (IProvider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (IProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("inference.type is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported inference provider: %s", name)
	}
	return factory(args)
}

// FormatInput renders the question and context the way the model was
// trained to read them.
func FormatInput(question string, resumeText string) string {
	return fmt.Sprintf("question: %s context: %s", question, resumeText)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("inference provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode inference provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode inference provider config: %w", err)
	}
	return nil
}
