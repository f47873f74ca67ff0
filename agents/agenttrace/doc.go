/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package agenttrace provides OpenTelemetry tracing for evaluation runs.

# Overview

  - ExecutionContext: run-level metadata (run id, models, prompt) carried in context.Context
  - Span: a unit or call span with helpers for token usage, attempts and completion

# Usage

Set execution context once per run, then narrow it per prompt:

	ctx = agenttrace.WithExecutionContext(ctx, agenttrace.ExecutionContext{
		RunID:      runID,
		TestModel:  "qwen/qwen3-235b-a22b",
		JudgeModel: "gpt-5-nano-2025-08-07",
	})

	ctx, span := agenttrace.StartUnit(ctx, prompt.ID)
	defer span.Complete(err)

Calls made inside the unit start child spans:

	ctx, call := agenttrace.StartCall(ctx, "judge", model)
	call.RecordTokenUsage(in, out)
	call.Complete(err)

# Metric Enrichment

ExecutionContext.EnrichAttributes adds only bounded labels (the model names) so it
can back a metrics.AttributeEnricher. The run and prompt identifiers are recorded
on spans, where cardinality is not a concern.
*/
package agenttrace
