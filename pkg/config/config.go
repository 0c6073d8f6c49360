package config

import "time"

// LLMConfig groups the OpenRouter endpoint and the council's model roster
// (spec §6).
type LLMConfig struct {
	APIKey            string   `yaml:"api_key" validate:"required"`
	APIURL            string   `yaml:"api_url" validate:"required,url"`
	CouncilModels     []string `yaml:"council_models" validate:"required,min=1"`
	ChairmanModel     string   `yaml:"chairman_model" validate:"required"`
	DefaultMaxTokens  int      `yaml:"default_max_tokens" validate:"required,min=1"`
	ChairmanMaxTokens int      `yaml:"chairman_max_tokens" validate:"required,min=1"`
	MockMode          bool     `yaml:"mock_mode"`
}

// StorageConfig locates the conversation store.
type StorageConfig struct {
	DataDir string `yaml:"data_dir" validate:"required"`
}

// HTTPConfig groups the API server's transport tunables.
type HTTPConfig struct {
	Port                int           `yaml:"port" validate:"required,min=1,max=65535"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	MaxRequestSizeBytes int64         `yaml:"max_request_size_bytes" validate:"required,min=1"`
	KeepAliveTimeout    time.Duration `yaml:"keepalive_timeout"`
	MaxConnections      int           `yaml:"max_connections"`
}

// RateLimitConfig groups the two fixed-window rate-limit policies (spec §9 C9).
type RateLimitConfig struct {
	Enabled               bool          `yaml:"enabled"`
	Window                time.Duration `yaml:"window"`
	MaxRequests           int           `yaml:"max_requests" validate:"required_if=Enabled true,omitempty,min=1"`
	MaxWorkflowExecutions int           `yaml:"max_workflow_executions" validate:"required_if=Enabled true,omitempty,min=1"`
}

// TimeoutConfig groups the API-level and title-generation deadlines.
type TimeoutConfig struct {
	APITimeout             time.Duration `yaml:"api_timeout"`
	TitleGenerationTimeout time.Duration `yaml:"title_generation_timeout"`
}

// ObservabilityConfig toggles OTLP export (spec §1 ambient requirement).
type ObservabilityConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name" validate:"required"`
}

// Config is the fully loaded and validated runtime configuration.
type Config struct {
	LLM           LLMConfig
	Storage       StorageConfig
	HTTP          HTTPConfig
	RateLimit     RateLimitConfig
	Timeouts      TimeoutConfig
	Observability ObservabilityConfig
}
