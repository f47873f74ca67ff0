/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/promptjudge/agents/judge"
	"chainguard.dev/promptjudge/agents/provider"
	"github.com/sethvargo/go-envconfig"
)

// Config is the full configuration of one evaluation run. It is built once
// at startup and passed down explicitly.
type Config struct {
	// Models
	TestModel     string `env:"TEST_MODEL,default=qwen/qwen3-235b-a22b"`
	TestProvider  string `env:"TEST_PROVIDER"`
	JudgeModel    string `env:"JUDGE_MODEL,default=gpt-5-nano-2025-08-07"`
	JudgeProvider string `env:"JUDGE_PROVIDER"`

	// Credentials
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	GoogleAPIKey     string `env:"GOOGLE_API_KEY"`
	GCPProjectID     string `env:"GCP_PROJECT_ID"`
	GCPRegion        string `env:"GCP_REGION,default=us-central1"`

	// Endpoint overrides, mostly for tests and proxies.
	OpenRouterBaseURL string `env:"OPENROUTER_BASE_URL"`
	OpenAIBaseURL     string `env:"OPENAI_BASE_URL"`

	// OpenRouter attribution headers.
	OpenRouterReferer    string `env:"OPENROUTER_REFERER"`
	OpenRouterTitle      string `env:"OPENROUTER_TITLE,default=promptjudge"`
	OpenRouterDataPolicy string `env:"OPENROUTER_DATA_POLICY"`

	// Inputs and outputs
	InputDir     string `env:"INPUT_DIR,default=."`
	OutputDir    string `env:"OUTPUT_DIR,default=."`
	OutputPrefix string `env:"OUTPUT_PREFIX,default=evaluation_results"`
	ReportBucket string `env:"REPORT_BUCKET"`
	Start        int    `env:"START,default=0"`
	Limit        int    `env:"LIMIT,default=0"`

	// Scheduling
	Concurrency       int           `env:"CONCURRENCY,default=10"`
	InterRequestDelay time.Duration `env:"INTER_REQUEST_DELAY,default=0s"`
	BatchSize         int           `env:"BATCH_SIZE,default=0"`
	BatchPause        time.Duration `env:"BATCH_PAUSE,default=0s"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND,default=0"`

	// Calls
	MaxAttempts              int     `env:"MAX_RETRIES,default=5"`
	GenerateMaxTokens        int64   `env:"GENERATE_MAX_TOKENS,default=2048"`
	GenerateMaxTokensCeiling int64   `env:"GENERATE_MAX_TOKENS_CEILING,default=16384"`
	GenerateTemperature      float64 `env:"GENERATE_TEMPERATURE,default=0.3"`
	JudgeMaxTokens           int64   `env:"JUDGE_MAX_TOKENS,default=4000"`
	JudgeMaxTokensCeiling    int64   `env:"JUDGE_MAX_TOKENS_CEILING,default=8000"`
	JudgeJSONSchema          bool    `env:"JUDGE_JSON_SCHEMA,default=false"`

	// Accounting
	PricesFile    string `env:"PRICES_FILE"`
	StrictPricing bool   `env:"STRICT_PRICING,default=false"`

	MetricsPort int `env:"METRICS_PORT,default=0"`
}

// Load processes the environment into a Config. A nil lookuper reads the
// process environment.
func Load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	if l == nil {
		l = envconfig.OsLookuper()
	}
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, &ConfigurationError{Field: "environment", Err: err}
	}
	return &cfg, nil
}

// Validate checks every setting and returns all problems found, each as a
// *ConfigurationError.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, field, format string, args ...any) {
		if !ok {
			errs = append(errs, Errorf(field, format, args...))
		}
	}

	check(c.Concurrency > 0, "CONCURRENCY", "must be positive, got %d", c.Concurrency)
	check(c.InterRequestDelay >= 0, "INTER_REQUEST_DELAY", "must not be negative, got %v", c.InterRequestDelay)
	check(c.BatchSize >= 0, "BATCH_SIZE", "must not be negative, got %d", c.BatchSize)
	check(c.BatchPause >= 0, "BATCH_PAUSE", "must not be negative, got %v", c.BatchPause)
	check(c.RequestsPerSecond >= 0, "REQUESTS_PER_SECOND", "must not be negative, got %v", c.RequestsPerSecond)
	check(c.MaxAttempts > 0, "MAX_RETRIES", "must be positive, got %d", c.MaxAttempts)
	check(c.Start >= 0, "START", "must not be negative, got %d", c.Start)
	check(c.Limit >= 0, "LIMIT", "must not be negative, got %d", c.Limit)
	check(c.GenerateMaxTokens > 0, "GENERATE_MAX_TOKENS", "must be positive, got %d", c.GenerateMaxTokens)
	check(c.GenerateMaxTokensCeiling >= c.GenerateMaxTokens, "GENERATE_MAX_TOKENS_CEILING",
		"must be at least GENERATE_MAX_TOKENS (%d), got %d", c.GenerateMaxTokens, c.GenerateMaxTokensCeiling)
	check(c.JudgeMaxTokens > 0, "JUDGE_MAX_TOKENS", "must be positive, got %d", c.JudgeMaxTokens)
	check(c.JudgeMaxTokensCeiling >= c.JudgeMaxTokens, "JUDGE_MAX_TOKENS_CEILING",
		"must be at least JUDGE_MAX_TOKENS (%d), got %d", c.JudgeMaxTokens, c.JudgeMaxTokensCeiling)
	check(c.GenerateTemperature >= 0 && c.GenerateTemperature <= 2, "GENERATE_TEMPERATURE",
		"must be between 0 and 2, got %v", c.GenerateTemperature)
	check(c.MetricsPort >= 0 && c.MetricsPort < 65536, "METRICS_PORT", "invalid port %d", c.MetricsPort)
	check(c.OutputPrefix != "", "OUTPUT_PREFIX", "must not be empty")

	check(c.TestModel != "", "TEST_MODEL", "must not be empty")
	check(c.JudgeModel != "", "JUDGE_MODEL", "must not be empty")
	errs = append(errs, c.checkProvider("TEST_PROVIDER", c.TestProvider, c.TestModel)...)
	errs = append(errs, c.checkProvider("JUDGE_PROVIDER", c.JudgeProvider, c.JudgeModel)...)

	return errors.Join(errs...)
}

func (c *Config) checkProvider(field, name, model string) []error {
	kind, err := provider.ParseKind(name)
	if err != nil {
		return []error{&ConfigurationError{Field: field, Err: err}}
	}
	s := c.settings(kind, model)
	switch s.Resolve() {
	case provider.OpenRouter:
		if s.APIKey == "" {
			return []error{Errorf("OPENROUTER_API_KEY", "required for model %q", model)}
		}
	case provider.OpenAI:
		if s.APIKey == "" {
			return []error{Errorf("OPENAI_API_KEY", "required for model %q", model)}
		}
	case provider.Anthropic:
		if s.APIKey == "" && s.ProjectID == "" {
			return []error{Errorf("ANTHROPIC_API_KEY", "or GCP_PROJECT_ID is required for model %q", model)}
		}
	case provider.Google:
		if s.APIKey == "" && s.ProjectID == "" {
			return []error{Errorf("GOOGLE_API_KEY", "or GCP_PROJECT_ID is required for model %q", model)}
		}
	}
	return nil
}

// settings returns the credentials and endpoint for a model. The provider
// kind is inferred from the model name when kind is empty.
func (c *Config) settings(kind provider.Kind, model string) provider.Settings {
	s := provider.Settings{
		Kind:      kind,
		Model:     model,
		ProjectID: c.GCPProjectID,
		Region:    c.GCPRegion,
	}
	switch s.Resolve() {
	case provider.OpenRouter:
		s.APIKey = c.OpenRouterAPIKey
		s.BaseURL = c.OpenRouterBaseURL
		s.Headers = c.openRouterHeaders()
	case provider.OpenAI:
		s.APIKey = c.OpenAIAPIKey
		s.BaseURL = c.OpenAIBaseURL
	case provider.Anthropic:
		s.APIKey = c.AnthropicAPIKey
	case provider.Google:
		s.APIKey = c.GoogleAPIKey
	}
	return s
}

func (c *Config) openRouterHeaders() map[string]string {
	h := map[string]string{}
	if c.OpenRouterReferer != "" {
		h["HTTP-Referer"] = c.OpenRouterReferer
	}
	if c.OpenRouterTitle != "" {
		h["X-Title"] = c.OpenRouterTitle
	}
	if c.OpenRouterDataPolicy != "" {
		h["X-Data-Policy"] = c.OpenRouterDataPolicy
	}
	return h
}

// GenerateSettings returns the client settings of the test model.
func (c *Config) GenerateSettings() provider.Settings {
	kind, _ := provider.ParseKind(c.TestProvider)
	s := c.settings(kind, c.TestModel)
	temp := c.GenerateTemperature
	if s.Resolve() == provider.Anthropic {
		temp = min(temp, 1)
	}
	s.Temperature = &temp
	return s
}

// JudgeSettings returns the client settings of the judge model. OpenAI
// judges send their budget as max_completion_tokens and keep the default
// temperature, which reasoning models require.
func (c *Config) JudgeSettings() (provider.Settings, error) {
	kind, _ := provider.ParseKind(c.JudgeProvider)
	s := c.settings(kind, c.JudgeModel)
	if s.Resolve() == provider.OpenAI {
		s.CompletionTokens = true
	}
	if c.JudgeJSONSchema {
		schema, err := judge.Schema()
		if err != nil {
			return s, fmt.Errorf("judge schema: %w", err)
		}
		s.SchemaName = judge.SchemaName
		s.Schema = schema
	}
	return s, nil
}
