/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package provider selects and constructs a model.Client for a model name.
//
// Four providers are supported: OpenRouter and OpenAI share the OpenAI chat
// completions adapter, Anthropic models go through the messages API (directly
// or through Vertex AI), and Gemini models go through generate content.
//
//	client, err := provider.New(ctx, provider.Settings{
//	    Model:  "qwen/qwen3-235b-a22b",
//	    APIKey: os.Getenv("OPENROUTER_API_KEY"),
//	})
package provider
