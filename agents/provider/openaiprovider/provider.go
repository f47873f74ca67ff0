/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/promptjudge/agents/model"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenRouterBaseURL is the OpenAI-compatible endpoint of OpenRouter.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// TokenParam selects which request field carries the token budget.
type TokenParam int

const (
	// MaxTokens sends the budget as max_tokens (OpenRouter and older models).
	MaxTokens TokenParam = iota
	// MaxCompletionTokens sends the budget as max_completion_tokens (reasoning models).
	MaxCompletionTokens
)

// provider is the private implementation of model.Client
type provider struct {
	client      openai.Client
	temperature *float64
	tokenParam  TokenParam
	schemaName  string
	schema      any
}

// New creates a model.Client backed by the OpenAI chat completions API.
func New(client openai.Client, opts ...Option) (model.Client, error) {
	p := &provider{
		client:     client,
		tokenParam: MaxTokens,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return p, nil
}

// NewClient builds an SDK client. The SDK's own retries are disabled because the
// call executor owns retry policy. An empty baseURL uses the OpenAI default.
func NewClient(apiKey, baseURL string, headers map[string]string) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	for k, v := range headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	return openai.NewClient(opts...)
}

// Complete implements model.Client
func (p *provider) Complete(ctx context.Context, req model.Request) (*model.Completion, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}

	if p.temperature != nil {
		params.Temperature = openai.Float(*p.temperature)
	}

	switch p.tokenParam {
	case MaxCompletionTokens:
		params.MaxCompletionTokens = openai.Int(req.MaxTokens)
	default:
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	if req.Structured {
		if p.schema != nil {
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
					JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
						Name:   p.schemaName,
						Schema: p.schema,
					},
				},
			}
		} else {
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			}
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Choices) == 0 {
		clog.FromContext(ctx).With("model", req.Model).Warn("Response carried no choices")
		return &model.Completion{FinishReason: model.FinishOther, Usage: usage(resp)}, nil
	}

	choice := resp.Choices[0]
	return &model.Completion{
		Content:      choice.Message.Content,
		FinishReason: finishReason(choice.FinishReason),
		Usage:        usage(resp),
	}, nil
}

func usage(resp *openai.ChatCompletion) *model.Usage {
	if resp.Usage.PromptTokens == 0 && resp.Usage.CompletionTokens == 0 {
		return nil
	}
	return &model.Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
}

func finishReason(reason string) model.FinishReason {
	switch strings.ToLower(reason) {
	case "length":
		return model.FinishLength
	case "stop", "":
		return model.FinishStop
	default:
		return model.FinishOther
	}
}

// classify marks client errors that a retry cannot fix as permanent.
// Rate limits, timeouts, server errors and network failures stay retryable.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 400, 401, 403, 404, 422:
			return model.Permanent(err)
		}
	}
	return err
}
