/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiprovider

import (
	"errors"
	"fmt"
)

// Option is a functional option for configuring the provider
type Option func(*provider) error

// WithTemperature sets the sampling temperature. When unset the request omits it,
// which some reasoning models require.
func WithTemperature(temp float64) Option {
	return func(p *provider) error {
		if temp < 0.0 || temp > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		p.temperature = &temp
		return nil
	}
}

// WithTokenParam selects max_tokens or max_completion_tokens.
func WithTokenParam(tp TokenParam) Option {
	return func(p *provider) error {
		if tp != MaxTokens && tp != MaxCompletionTokens {
			return fmt.Errorf("unknown token parameter %d", tp)
		}
		p.tokenParam = tp
		return nil
	}
}

// WithResponseSchema requests json_schema structured output with the given schema
// for structured requests. Without it structured requests use json_object mode.
func WithResponseSchema(name string, schema any) Option {
	return func(p *provider) error {
		if name == "" {
			return errors.New("schema name cannot be empty")
		}
		if schema == nil {
			return errors.New("schema cannot be nil")
		}
		p.schemaName = name
		p.schema = schema
		return nil
	}
}
