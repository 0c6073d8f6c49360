package config

import "time"

// Defaults returns the built-in configuration values applied before YAML
// and environment overrides (spec §6's stated defaults).
func Defaults() *Config {
	return &Config{
		LLM: LLMConfig{
			APIURL:            "https://openrouter.ai/api/v1",
			DefaultMaxTokens:  2048,
			ChairmanMaxTokens: 4096,
		},
		Storage: StorageConfig{
			DataDir: "data/conversations",
		},
		HTTP: HTTPConfig{
			Port:                8001,
			RequestTimeout:      30 * time.Second,
			MaxRequestSizeBytes: 1 << 20, // 1 MiB
			KeepAliveTimeout:    60 * time.Second,
			MaxConnections:      0, // 0 = unlimited
		},
		RateLimit: RateLimitConfig{
			Enabled:               true,
			Window:                time.Minute,
			MaxRequests:           60,
			MaxWorkflowExecutions: 10,
		},
		Timeouts: TimeoutConfig{
			APITimeout:             120 * time.Second,
			TitleGenerationTimeout: 30 * time.Second,
		},
		Observability: ObservabilityConfig{
			Enabled:     false,
			ServiceName: "llm-council",
		},
	}
}
