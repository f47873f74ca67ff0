/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "chainguard.ai.promptjudge.agenttrace"

// Span wraps an OpenTelemetry span for a unit or a single remote call.
type Span struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Error     error

	mu   sync.Mutex
	span oteltrace.Span
}

func tracer() oteltrace.Tracer {
	return otel.Tracer(instrumentationName, oteltrace.WithInstrumentationVersion("1.0.0"))
}

func start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	execCtx := GetExecutionContext(ctx)
	if execCtx.RunID != "" {
		attrs = append(attrs, attribute.String("run_id", execCtx.RunID))
	}
	ctx, span := tracer().Start(ctx, name, oteltrace.WithAttributes(attrs...))
	return ctx, &Span{
		Name:      name,
		StartTime: time.Now(),
		span:      span,
	}
}

// StartUnit starts the span covering one prompt's generate and judge calls.
// The returned context carries the prompt in its ExecutionContext.
func StartUnit(ctx context.Context, promptID, category string) (context.Context, *Span) {
	execCtx := GetExecutionContext(ctx)
	execCtx.PromptID = promptID
	execCtx.Category = category
	ctx = WithExecutionContext(ctx, execCtx)

	attrs := []attribute.KeyValue{attribute.String("prompt_id", promptID)}
	if category != "" {
		attrs = append(attrs, attribute.String("category", category))
	}
	return start(ctx, "evaluation.unit", attrs...)
}

// StartCall starts a child span for one executor call (all of its attempts).
func StartCall(ctx context.Context, role, model string) (context.Context, *Span) {
	attrs := []attribute.KeyValue{
		attribute.String("role", role),
		attribute.String("model", model),
	}
	if id := GetExecutionContext(ctx).PromptID; id != "" {
		attrs = append(attrs, attribute.String("prompt_id", id))
	}
	return start(ctx, "evaluation.call", attrs...)
}

// RecordTokenUsage adds token usage to the span.
func (s *Span) RecordTokenUsage(inputTokens, outputTokens int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.span != nil {
		s.span.AddEvent("usage", oteltrace.WithAttributes(
			attribute.Int64("tokens.input", inputTokens),
			attribute.Int64("tokens.output", outputTokens),
			attribute.Int64("tokens.total", inputTokens+outputTokens),
		))
	}
}

// RecordAttempt adds an event describing one classified attempt.
func (s *Span) RecordAttempt(attempt int, outcome string, maxTokens int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.span != nil {
		s.span.AddEvent("attempt", oteltrace.WithAttributes(
			attribute.Int("attempt", attempt),
			attribute.String("outcome", outcome),
			attribute.Int64("max_tokens", maxTokens),
		))
	}
}

// SetAttributes sets additional attributes on the span.
func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.span != nil {
		s.span.SetAttributes(attrs...)
	}
}

// Complete ends the span, recording err if non-nil. Only the first call has effect.
func (s *Span) Complete(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.EndTime.IsZero() {
		return
	}
	s.EndTime = time.Now()
	s.Error = err

	if s.span != nil {
		if err != nil {
			s.span.RecordError(err)
			s.span.SetStatus(codes.Error, err.Error())
		} else {
			s.span.SetStatus(codes.Ok, "")
		}
		s.span.End()
	}
}

// Duration returns the duration of the span, or the time elapsed so far if it is still open.
func (s *Span) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}
