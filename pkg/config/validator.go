package config

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
)

// Validator validates a Config comprehensively with clear, field-scoped
// errors, matching pkg/config/validator.go's ValidateAll shape.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for cfg.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

var structValidator = validator.New()

// ValidateAll validates in order: LLM API URL -> LLM -> storage -> HTTP ->
// rate limit -> observability, failing fast at the first problem found.
// Timeouts are not validated.
func (v *Validator) ValidateAll() error {
	if err := v.validateLLMURL(); err != nil {
		return err
	}
	if err := v.validateStruct(v.cfg.LLM, "llm"); err != nil {
		return err
	}
	if err := v.validateStruct(v.cfg.Storage, "storage"); err != nil {
		return err
	}
	if err := v.validateStruct(v.cfg.HTTP, "http"); err != nil {
		return err
	}
	if err := v.validateStruct(v.cfg.RateLimit, "rate_limit"); err != nil {
		return err
	}
	if err := v.validateStruct(v.cfg.Observability, "observability"); err != nil {
		return err
	}
	return nil
}

func (v *Validator) validateStruct(s any, component string) error {
	if err := structValidator.Struct(s); err != nil {
		return fmt.Errorf("%s validation failed: %w", component, err)
	}
	return nil
}

func (v *Validator) validateLLMURL() error {
	if _, err := url.ParseRequestURI(v.cfg.LLM.APIURL); err != nil {
		return &ValidationError{Field: "llm.api_url", Err: err}
	}
	return nil
}
