/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"context"
	"testing"
)

func TestInferKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		model string
		want  Kind
	}{{
		model: "qwen/qwen3-235b-a22b",
		want:  OpenRouter,
	}, {
		model: "gpt-5-nano-2025-08-07",
		want:  OpenAI,
	}, {
		model: "claude-sonnet-4@20250514",
		want:  Anthropic,
	}, {
		model: "gemini-2.5-flash",
		want:  Google,
	}, {
		model: "anthropic/claude-3.5-sonnet",
		want:  OpenRouter,
	}}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			t.Parallel()
			if got := InferKind(tt.model); got != tt.want {
				t.Errorf("InferKind(%q) = %q, wanted = %q", tt.model, got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		if err != nil {
			t.Fatalf("ParseKind(%q) = %v", k, err)
		}
		if got != k {
			t.Errorf("ParseKind(%q) = %q, wanted = %q", k, got, k)
		}
	}
	if got, err := ParseKind(""); err != nil || got != "" {
		t.Errorf("ParseKind(\"\") = (%q, %v), wanted empty", got, err)
	}
	if _, err := ParseKind("bedrock"); err == nil {
		t.Error("ParseKind(bedrock) should fail")
	}
}

func TestSettingsResolve(t *testing.T) {
	t.Parallel()

	s := Settings{Kind: OpenAI, Model: "qwen/qwen3-235b-a22b"}
	if got := s.Resolve(); got != OpenAI {
		t.Errorf("Resolve() = %q, wanted = %q", got, OpenAI)
	}
	s.Kind = ""
	if got := s.Resolve(); got != OpenRouter {
		t.Errorf("Resolve() = %q, wanted = %q", got, OpenRouter)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	temp := 0.3

	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{{
		name:     "openrouter",
		settings: Settings{Model: "qwen/qwen3-235b-a22b", APIKey: "k", Temperature: &temp},
	}, {
		name: "openai with schema",
		settings: Settings{
			Model:            "gpt-5-nano-2025-08-07",
			APIKey:           "k",
			CompletionTokens: true,
			SchemaName:       "evaluation",
			Schema:           map[string]any{"type": "object"},
		},
	}, {
		name:     "openai missing key",
		settings: Settings{Model: "gpt-4o-mini"},
		wantErr:  true,
	}, {
		name:     "anthropic api key",
		settings: Settings{Model: "claude-sonnet-4", APIKey: "k"},
	}, {
		name:     "anthropic without credentials",
		settings: Settings{Model: "claude-sonnet-4"},
		wantErr:  true,
	}, {
		name:     "anthropic bad temperature",
		settings: Settings{Model: "claude-sonnet-4", APIKey: "k", Temperature: func() *float64 { v := 1.5; return &v }()},
		wantErr:  true,
	}, {
		name:     "google without credentials",
		settings: Settings{Model: "gemini-2.5-flash"},
		wantErr:  true,
	}, {
		name:     "unknown kind",
		settings: Settings{Kind: "bedrock", Model: "x", APIKey: "k"},
		wantErr:  true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, err := New(ctx, tt.settings)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && client == nil {
				t.Error("New() returned nil client")
			}
		})
	}
}
