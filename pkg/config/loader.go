package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// yamlOverlay mirrors Config's shape for optional YAML-file overrides
// (council.yaml), matching pkg/config/loader.go's TarsyYAMLConfig pattern
// of parsing into a dedicated YAML struct rather than tagging Config
// itself with every concern's serialization format.
type yamlOverlay struct {
	LLM           *LLMConfig           `yaml:"llm"`
	Storage       *StorageConfig       `yaml:"storage"`
	Observability *ObservabilityConfig `yaml:"observability"`
}

// Load builds the runtime Config: built-in defaults, overlaid with an
// optional YAML file at configPath (skipped if absent), overlaid with the
// environment variables from spec §6, then validated.
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	if configPath != "" {
		if err := applyYAMLOverlay(cfg, configPath); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := NewValidator(cfg).ValidateAll(); err != nil {
		return nil, err
	}

	slog.Info("configuration loaded",
		"models", cfg.LLM.CouncilModels,
		"chairman", cfg.LLM.ChairmanModel,
		"port", cfg.HTTP.Port,
		"data_dir", cfg.Storage.DataDir)

	return cfg, nil
}

func applyYAMLOverlay(cfg *Config, configPath string) error {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &LoadError{File: configPath, Err: err}
	}

	raw = ExpandEnv(raw)

	var overlay yamlOverlay
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return &LoadError{File: configPath, Err: fmt.Errorf("%w: %v", ErrInvalidYAML, err)}
	}

	if overlay.LLM != nil {
		if err := mergo.Merge(&cfg.LLM, *overlay.LLM, mergo.WithOverride); err != nil {
			return &LoadError{File: configPath, Err: err}
		}
	}
	if overlay.Storage != nil {
		if err := mergo.Merge(&cfg.Storage, *overlay.Storage, mergo.WithOverride); err != nil {
			return &LoadError{File: configPath, Err: err}
		}
	}
	if overlay.Observability != nil {
		if err := mergo.Merge(&cfg.Observability, *overlay.Observability, mergo.WithOverride); err != nil {
			return &LoadError{File: configPath, Err: err}
		}
	}

	return nil
}

// applyEnvOverrides reads the literal environment variables from spec §6.
// Each is optional; an unset variable leaves the prior value (default or
// YAML-overlaid) untouched.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("OPENROUTER_API_URL"); v != "" {
		cfg.LLM.APIURL = v
	}
	if v := os.Getenv("COUNCIL_MODELS"); v != "" {
		cfg.LLM.CouncilModels = splitCSV(v)
	}
	if v := os.Getenv("CHAIRMAN_MODEL"); v != "" {
		cfg.LLM.ChairmanModel = v
	}
	if v := envInt("DEFAULT_MAX_TOKENS"); v != nil {
		cfg.LLM.DefaultMaxTokens = *v
	}
	if v := envInt("CHAIRMAN_MAX_TOKENS"); v != nil {
		cfg.LLM.ChairmanMaxTokens = *v
	}
	if v := envBool("MOCK_MODE"); v != nil {
		cfg.LLM.MockMode = *v
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}

	if v := envInt("PORT"); v != nil {
		cfg.HTTP.Port = *v
	}
	if v := envMillis("HTTP_REQUEST_TIMEOUT_MS"); v != nil {
		cfg.HTTP.RequestTimeout = *v
	}
	if v := envInt64("HTTP_MAX_REQUEST_SIZE_BYTES"); v != nil {
		cfg.HTTP.MaxRequestSizeBytes = *v
	}
	if v := envMillis("HTTP_KEEPALIVE_TIMEOUT_MS"); v != nil {
		cfg.HTTP.KeepAliveTimeout = *v
	}
	if v := envInt("HTTP_MAX_CONNECTIONS"); v != nil {
		cfg.HTTP.MaxConnections = *v
	}

	if v := envMillis("API_TIMEOUT_MS"); v != nil {
		cfg.Timeouts.APITimeout = *v
	}
	if v := envMillis("TITLE_GENERATION_TIMEOUT_MS"); v != nil {
		cfg.Timeouts.TitleGenerationTimeout = *v
	}

	if v := envBool("RATE_LIMIT_ENABLED"); v != nil {
		cfg.RateLimit.Enabled = *v
	}
	if v := envMillis("RATE_LIMIT_WINDOW_MS"); v != nil {
		cfg.RateLimit.Window = *v
	}
	if v := envInt("RATE_LIMIT_MAX_REQUESTS"); v != nil {
		cfg.RateLimit.MaxRequests = *v
	}
	if v := envInt("RATE_LIMIT_MAX_WORKFLOW_EXECUTIONS"); v != nil {
		cfg.RateLimit.MaxWorkflowExecutions = *v
	}
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envInt(name string) *int {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring malformed integer env var", "name", name, "value", v)
		return nil
	}
	return &n
}

func envInt64(name string) *int64 {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("ignoring malformed integer env var", "name", name, "value", v)
		return nil
	}
	return &n
}

func envMillis(name string) *time.Duration {
	n := envInt(name)
	if n == nil {
		return nil
	}
	d := time.Duration(*n) * time.Millisecond
	return &d
}

func envBool(name string) *bool {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("ignoring malformed boolean env var", "name", name, "value", v)
		return nil
	}
	return &b
}
