package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := Defaults()
	cfg.LLM.APIKey = "sk-test"
	cfg.LLM.CouncilModels = []string{"gpt-5", "claude-opus"}
	cfg.LLM.ChairmanModel = "gpt-5"
	return cfg
}

func TestValidator_ValidConfigPasses(t *testing.T) {
	require.NoError(t, NewValidator(validConfig()).ValidateAll())
}

func TestValidator_MissingAPIKeyFails(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.APIKey = ""
	assert.Error(t, NewValidator(cfg).ValidateAll())
}

func TestValidator_EmptyCouncilModelsFails(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.CouncilModels = nil
	assert.Error(t, NewValidator(cfg).ValidateAll())
}

func TestValidator_MalformedAPIURLFails(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.APIURL = "not a url"
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "llm.api_url", validationErr.Field)
}

func TestValidator_RateLimitRequiresMaxRequestsWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.MaxRequests = 0
	assert.Error(t, NewValidator(cfg).ValidateAll())
}

func TestValidator_RateLimitDisabledSkipsMaxRequests(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.MaxRequests = 0
	cfg.RateLimit.MaxWorkflowExecutions = 0
	assert.NoError(t, NewValidator(cfg).ValidateAll())
}

func TestValidator_InvalidPortFails(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 70000
	assert.Error(t, NewValidator(cfg).ValidateAll())
}
