/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// GenAI provides OpenTelemetry metrics for model calls made during an evaluation run.
// It counts prompt and completion tokens and classifies every call attempt by outcome,
// degrading to no-op counters if metric creation fails.
type GenAI struct {
	meter            metric.Meter
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	attempts         metric.Int64Counter
	attrEnricher     AttributeEnricher
}

// NewGenAI creates a new GenAI metrics instance with the specified meter name.
// If any counter fails to initialize a warning is logged and a no-op counter is used instead.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	promptTokens, err := meter.Int64Counter("genai.token.prompt",
		metric.WithDescription("The number of prompt tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create prompt tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		promptTokens = noop.Int64Counter{}
	}

	completionTokens, err := meter.Int64Counter("genai.token.completion",
		metric.WithDescription("The number of completion tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create completion tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		completionTokens = noop.Int64Counter{}
	}

	attempts, err := meter.Int64Counter("genai.call.attempts",
		metric.WithDescription("The number of remote call attempts, by outcome"),
		metric.WithUnit("{attempts}"))
	if err != nil {
		slog.Warn("Failed to create call attempts counter, metrics will be disabled", "error", err, "meter", meterName)
		attempts = noop.Int64Counter{}
	}

	return &GenAI{
		meter:            meter,
		promptTokens:     promptTokens,
		completionTokens: completionTokens,
		attempts:         attempts,
	}
}

// SetAttributeEnricher sets the attribute enricher for this metrics instance.
// The enricher is called before recording each metric to add contextual attributes
// such as the run's models.
func (m *GenAI) SetAttributeEnricher(enricher AttributeEnricher) {
	m.attrEnricher = enricher
}

func (m *GenAI) attributes(ctx context.Context, base []attribute.KeyValue, attrs []attribute.KeyValue) []attribute.KeyValue {
	if m.attrEnricher != nil {
		base = m.attrEnricher(ctx, base)
	}
	return append(base, attrs...)
}

// RecordTokens records prompt and completion token usage for a model and role.
func (m *GenAI) RecordTokens(ctx context.Context, model, role string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	all := m.attributes(ctx, []attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("role", role),
	}, attrs)

	m.promptTokens.Add(ctx, promptTokens, metric.WithAttributes(all...))
	m.completionTokens.Add(ctx, completionTokens, metric.WithAttributes(all...))
}

// RecordAttempt records one call attempt and how it was classified
// (success, truncated, empty, malformed, transport_error, permanent_error).
func (m *GenAI) RecordAttempt(ctx context.Context, model, role, outcome string, attrs ...attribute.KeyValue) {
	all := m.attributes(ctx, []attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("role", role),
		attribute.String("outcome", outcome),
	}, attrs)

	m.attempts.Add(ctx, 1, metric.WithAttributes(all...))
}
