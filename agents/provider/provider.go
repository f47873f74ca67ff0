/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/promptjudge/agents/model"
	"chainguard.dev/promptjudge/agents/provider/claudeprovider"
	"chainguard.dev/promptjudge/agents/provider/googleprovider"
	"chainguard.dev/promptjudge/agents/provider/openaiprovider"
)

// Kind names a model provider.
type Kind string

const (
	OpenRouter Kind = "openrouter"
	OpenAI     Kind = "openai"
	Anthropic  Kind = "anthropic"
	Google     Kind = "google"
)

// Kinds lists the supported providers.
var Kinds = []Kind{OpenRouter, OpenAI, Anthropic, Google}

// Settings configures a single model client.
type Settings struct {
	// Kind selects the provider. When empty it is inferred from Model.
	Kind  Kind
	Model string

	APIKey  string
	BaseURL string
	Headers map[string]string

	// ProjectID and Region route Anthropic and Google models through
	// Vertex AI when no APIKey is set.
	ProjectID string
	Region    string

	// Temperature is left to the provider default when nil.
	Temperature *float64

	// CompletionTokens sends the budget as max_completion_tokens (OpenAI only).
	CompletionTokens bool

	// SchemaName and Schema request strict JSON schema output where supported.
	SchemaName string
	Schema     any
}

// InferKind guesses the provider from a model name. Slash-qualified names
// such as "qwen/qwen3-235b-a22b" are OpenRouter routes.
func InferKind(modelName string) Kind {
	name := strings.ToLower(modelName)
	switch {
	case strings.Contains(name, "/"):
		return OpenRouter
	case strings.HasPrefix(name, "claude"):
		return Anthropic
	case strings.HasPrefix(name, "gemini"):
		return Google
	default:
		return OpenAI
	}
}

// ParseKind validates a provider name. An empty name is allowed and means
// "infer from the model".
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return "", nil
	}
	for _, k := range Kinds {
		if Kind(strings.ToLower(s)) == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// Resolve returns the effective provider kind for these settings.
func (s Settings) Resolve() Kind {
	if s.Kind != "" {
		return s.Kind
	}
	return InferKind(s.Model)
}

// New builds a model.Client for the given settings.
func New(ctx context.Context, s Settings) (model.Client, error) {
	switch kind := s.Resolve(); kind {
	case OpenRouter, OpenAI:
		if s.APIKey == "" {
			return nil, fmt.Errorf("%s: an API key is required", kind)
		}
		baseURL := s.BaseURL
		if baseURL == "" && kind == OpenRouter {
			baseURL = openaiprovider.OpenRouterBaseURL
		}
		var opts []openaiprovider.Option
		if s.Temperature != nil {
			opts = append(opts, openaiprovider.WithTemperature(*s.Temperature))
		}
		if s.CompletionTokens {
			opts = append(opts, openaiprovider.WithTokenParam(openaiprovider.MaxCompletionTokens))
		}
		if s.Schema != nil {
			opts = append(opts, openaiprovider.WithResponseSchema(s.SchemaName, s.Schema))
		}
		return openaiprovider.New(openaiprovider.NewClient(s.APIKey, baseURL, s.Headers), opts...)

	case Anthropic:
		var opts []claudeprovider.Option
		if s.Temperature != nil {
			opts = append(opts, claudeprovider.WithTemperature(*s.Temperature))
		}
		if s.APIKey != "" {
			return claudeprovider.New(claudeprovider.NewClient(s.APIKey, s.BaseURL), opts...)
		}
		if s.ProjectID == "" || s.Region == "" {
			return nil, errors.New("anthropic: an API key or a Vertex project and region is required")
		}
		return claudeprovider.New(claudeprovider.NewVertexClient(ctx, s.Region, s.ProjectID), opts...)

	case Google:
		var opts []googleprovider.Option
		if s.Temperature != nil {
			opts = append(opts, googleprovider.WithTemperature(float32(*s.Temperature)))
		}
		if s.APIKey != "" {
			client, err := googleprovider.NewClient(ctx, s.APIKey)
			if err != nil {
				return nil, err
			}
			return googleprovider.New(client, opts...)
		}
		if s.ProjectID == "" || s.Region == "" {
			return nil, errors.New("google: an API key or a Vertex project and region is required")
		}
		client, err := googleprovider.NewVertexClient(ctx, s.ProjectID, s.Region)
		if err != nil {
			return nil, err
		}
		return googleprovider.New(client, opts...)

	default:
		return nil, fmt.Errorf("unknown provider %q", kind)
	}
}
