/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// ExecutionContext provides run-level context for evaluation calls.
// It is used to enrich spans and metrics with the run's identity.
type ExecutionContext struct {
	RunID      string `json:"run_id,omitempty"`
	TestModel  string `json:"test_model,omitempty"`
	JudgeModel string `json:"judge_model,omitempty"`
	PromptID   string `json:"prompt_id,omitempty"` // set per unit
	Category   string `json:"category,omitempty"`  // set per unit
}

// EnrichAttributes adds execution context attributes to the provided base attributes.
//
// Note: run_id and prompt_id are NOT included because every run and prompt would
// create a new time series. They remain on spans.
func (e ExecutionContext) EnrichAttributes(baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(baseAttrs), len(baseAttrs)+3)
	copy(attrs, baseAttrs)

	if e.TestModel != "" {
		attrs = append(attrs, attribute.String("test_model", e.TestModel))
	}
	if e.JudgeModel != "" {
		attrs = append(attrs, attribute.String("judge_model", e.JudgeModel))
	}
	// Categories come from the prompt set and are few.
	if e.Category != "" {
		attrs = append(attrs, attribute.String("category", e.Category))
	}
	return attrs
}

// Enricher returns a metrics attribute enricher backed by the execution context in ctx.
func Enricher() func(context.Context, []attribute.KeyValue) []attribute.KeyValue {
	return func(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue {
		return GetExecutionContext(ctx).EnrichAttributes(base)
	}
}

// contextKey is used for storing execution context in context.Context
type contextKey string

const executionContextKey contextKey = "execution_context"

// WithExecutionContext adds execution context to the Go context
func WithExecutionContext(ctx context.Context, execCtx ExecutionContext) context.Context {
	return context.WithValue(ctx, executionContextKey, execCtx)
}

// GetExecutionContext retrieves execution context from the Go context
func GetExecutionContext(ctx context.Context) ExecutionContext {
	if val := ctx.Value(executionContextKey); val != nil {
		if execCtx, ok := val.(ExecutionContext); ok {
			return execCtx
		}
	}
	return ExecutionContext{}
}
