package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeminiFactory_RequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := NewProvider("gemini", map[string]interface{}{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "api_key")
}

func TestGeminiFactory_ReadsKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	provider, err := NewProvider("gemini", map[string]interface{}{})
	require.NoError(t, err)
	require.Equal(t, "gemini", provider.Name())
}
