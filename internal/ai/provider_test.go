package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type blockingProvider struct{}

func (blockingProvider) Name() string { return "blocking" }

func (blockingProvider) Answer(ctx context.Context, model string, question string, resumeText string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type echoProvider struct{}

func (echoProvider) Name() string { return "echo" }

func (echoProvider) Answer(ctx context.Context, model string, question string, resumeText string) (string, error) {
	return question, nil
}

func TestAnswerer_AppliesConfiguredTimeout(t *testing.T) {
	answerer := NewAnswerer(blockingProvider{}, "bert-base-uncased", 20*time.Millisecond)
	start := time.Now()
	_, err := answerer.Answer(context.Background(), "who is this?", "resume text")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestAnswerer_ZeroTimeoutPassesThrough(t *testing.T) {
	answerer := NewAnswerer(echoProvider{}, "bert-base-uncased", 0)
	answer, err := answerer.Answer(context.Background(), "who is this?", "resume text")
	require.NoError(t, err)
	require.Equal(t, "who is this?", answer)
}
