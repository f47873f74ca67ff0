/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleprovider

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/promptjudge/agents/model"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

// provider is the private implementation of model.Client
type provider struct {
	client      *genai.Client
	temperature *float32
}

// New creates a model.Client backed by Gemini generate content.
func New(client *genai.Client, opts ...Option) (model.Client, error) {
	if client == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}
	p := &provider{client: client}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return p, nil
}

// NewClient builds a Gemini API client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	return client, nil
}

// NewVertexClient builds a client that reaches Gemini through Vertex AI.
func NewVertexClient(ctx context.Context, projectID, region string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	return client, nil
}

// Complete implements model.Client
func (p *provider) Complete(ctx context.Context, req model.Request) (*model.Completion, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     p.temperature,
		MaxOutputTokens: int32(min(req.MaxTokens, int64(1<<31-1))),
	}
	if req.Structured {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, classify(err)
	}

	completion := &model.Completion{FinishReason: model.FinishOther}
	if resp.UsageMetadata != nil {
		completion.Usage = &model.Usage{
			InputTokens:  int64(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	if len(resp.Candidates) == 0 {
		clog.FromContext(ctx).With("model", req.Model).Warn("No content generated - no candidates")
		return completion, nil
	}

	candidate := resp.Candidates[0]
	completion.FinishReason = finishReason(candidate.FinishReason)
	if candidate.Content != nil {
		var text strings.Builder
		for _, part := range candidate.Content.Parts {
			// Thought summaries are not part of the answer.
			if part == nil || part.Thought {
				continue
			}
			text.WriteString(part.Text)
		}
		completion.Content = text.String()
	}
	return completion, nil
}

func finishReason(reason genai.FinishReason) model.FinishReason {
	switch reason {
	case genai.FinishReasonMaxTokens:
		return model.FinishLength
	case genai.FinishReasonStop, genai.FinishReasonUnspecified, "":
		return model.FinishStop
	default:
		return model.FinishOther
	}
}
