package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FillsDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"db_path": "resumechat.db",
		"document_store": {"type": "local", "data": {"dir": "/tmp/resumes"}},
		"pipeline": {"qa_path": "data/custom_qa.json"},
		"trainer": {"type": "hfserver"},
		"inference": {"type": "modelserver"}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "bert-base-uncased", cfg.Pipeline.BaseModel)
	require.Equal(t, "resume_data.json", cfg.Pipeline.ProfileFile)
	require.Equal(t, "fine_tuning_data.json", cfg.Pipeline.DatasetFile)
	require.Equal(t, 30, cfg.Inference.TimeoutSeconds)
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no db_path", `{"document_store": {"type": "local"}, "pipeline": {"qa_path": "qa.json"}, "trainer": {"type": "hfserver"}, "inference": {"type": "modelserver"}}`},
		{"no store type", `{"db_path": "x.db", "pipeline": {"qa_path": "qa.json"}, "trainer": {"type": "hfserver"}, "inference": {"type": "modelserver"}}`},
		{"no qa_path", `{"db_path": "x.db", "document_store": {"type": "local"}, "trainer": {"type": "hfserver"}, "inference": {"type": "modelserver"}}`},
		{"no trainer", `{"db_path": "x.db", "document_store": {"type": "local"}, "pipeline": {"qa_path": "qa.json"}, "inference": {"type": "modelserver"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
