package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kvs map[string]string) {
	t.Helper()
	for k, v := range kvs {
		t.Setenv(k, v)
	}
}

func TestLoad_DefaultsPlusRequiredEnv(t *testing.T) {
	setEnv(t, map[string]string{
		"OPENROUTER_API_KEY": "sk-test",
		"COUNCIL_MODELS":     "gpt-5, claude-opus ,gemini-pro",
		"CHAIRMAN_MODEL":     "gpt-5",
	})

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, []string{"gpt-5", "claude-opus", "gemini-pro"}, cfg.LLM.CouncilModels)
	assert.Equal(t, "gpt-5", cfg.LLM.ChairmanModel)
	assert.Equal(t, 2048, cfg.LLM.DefaultMaxTokens)
	assert.Equal(t, 8001, cfg.HTTP.Port)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"OPENROUTER_API_KEY":  "sk-test",
		"COUNCIL_MODELS":      "gpt-5",
		"CHAIRMAN_MODEL":      "gpt-5",
		"DEFAULT_MAX_TOKENS":  "1024",
		"CHAIRMAN_MAX_TOKENS": "8192",
		"MOCK_MODE":           "true",
		"PORT":                "9090",
	})

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.LLM.DefaultMaxTokens)
	assert.Equal(t, 8192, cfg.LLM.ChairmanMaxTokens)
	assert.True(t, cfg.LLM.MockMode)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_YAMLOverlayAppliesBeforeEnv(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "council.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
llm:
  api_key: from-yaml
  api_url: https://openrouter.ai/api/v1
  council_models: ["gpt-5"]
  chairman_model: gpt-5
  default_max_tokens: 2048
  chairman_max_tokens: 4096
storage:
  data_dir: `+filepath.Join(dir, "conversations")+`
`), 0o600))

	setEnv(t, map[string]string{"OPENROUTER_API_KEY": "from-env"})

	cfg, err := Load(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.LLM.APIKey, "env override must win over the YAML overlay")
	assert.Equal(t, filepath.Join(dir, "conversations"), cfg.Storage.DataDir)
}

func TestLoad_MissingYAMLFileIsNotAnError(t *testing.T) {
	setEnv(t, map[string]string{
		"OPENROUTER_API_KEY": "sk-test",
		"COUNCIL_MODELS":     "gpt-5",
		"CHAIRMAN_MODEL":     "gpt-5",
	})

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
}

func TestLoad_MissingRequiredFieldFails(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_MalformedEnvIntIsIgnored(t *testing.T) {
	setEnv(t, map[string]string{
		"OPENROUTER_API_KEY": "sk-test",
		"COUNCIL_MODELS":     "gpt-5",
		"CHAIRMAN_MODEL":     "gpt-5",
		"PORT":               "not-a-number",
	})

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8001, cfg.HTTP.Port, "malformed env int must fall back to the prior value")
}
