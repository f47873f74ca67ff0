/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/promptjudge/agents/model"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
)

// structuredInstructions is sent as the system prompt for structured requests;
// the Messages API has no JSON response mode.
const structuredInstructions = "Respond with a single JSON object and no surrounding prose or code fences."

// provider is the private implementation of model.Client
type provider struct {
	client      anthropic.Client
	temperature *float64
}

// New creates a model.Client backed by the Anthropic Messages API.
func New(client anthropic.Client, opts ...Option) (model.Client, error) {
	p := &provider{client: client}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return p, nil
}

// NewClient builds an SDK client authenticated with an API key.
// An empty baseURL uses the Anthropic default.
func NewClient(apiKey, baseURL string) anthropic.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return anthropic.NewClient(opts...)
}

// NewVertexClient builds an SDK client that reaches Claude through Vertex AI
// using Google application default credentials.
func NewVertexClient(ctx context.Context, region, projectID string) anthropic.Client {
	return anthropic.NewClient(
		vertex.WithGoogleAuth(ctx, region, projectID),
		option.WithMaxRetries(0),
	)
}

// Complete implements model.Client
func (p *provider) Complete(ctx context.Context, req model.Request) (*model.Completion, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	if p.temperature != nil {
		params.Temperature = anthropic.Float(*p.temperature)
	}

	if req.Structured {
		params.System = []anthropic.TextBlockParam{{Text: structuredInstructions}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classify(err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	completion := &model.Completion{
		Content:      text.String(),
		FinishReason: finishReason(msg.StopReason),
	}
	if msg.Usage.InputTokens != 0 || msg.Usage.OutputTokens != 0 {
		completion.Usage = &model.Usage{
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
		}
	}
	return completion, nil
}

func finishReason(reason anthropic.StopReason) model.FinishReason {
	switch reason {
	case anthropic.StopReasonMaxTokens:
		return model.FinishLength
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence, "":
		return model.FinishStop
	default:
		return model.FinishOther
	}
}

// classify marks client errors that a retry cannot fix as permanent.
// 429, 503, 504 and 529 (overloaded) are the common retryable statuses.
func classify(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 400, 401, 403, 404, 413, 422:
			return model.Permanent(err)
		}
	}
	return err
}
