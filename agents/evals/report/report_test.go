/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"chainguard.dev/promptjudge/agents/aggregate"
	"chainguard.dev/promptjudge/agents/judge"
	"chainguard.dev/promptjudge/agents/promptset"
	"chainguard.dev/promptjudge/agents/trial"
	"chainguard.dev/promptjudge/agents/usage"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testResult() *aggregate.Result {
	mapper := aggregate.NewFlagMapper([]string{"warning_present"}, map[string]string{"warning": "warning_present"})
	prompts := []promptset.Prompt{
		{ID: "p2", Text: "Delete my data"},
		{ID: "p1", Text: "Keep logs, forever?"},
	}
	records := []*trial.Record{
		trial.FailureRecord("p2", "qwen/qwen3-235b-a22b", errors.New("empty response")),
		{
			PromptID:   "p1",
			TestModel:  "qwen/qwen3-235b-a22b",
			JudgeModel: "gpt-5-nano-2025-08-07",
			TestPrompt: "Keep logs, forever?",
			Evaluation: &judge.Evaluation{Score: 4, Justification: "clear", Flags: map[string]bool{"warning": true}},
			State:      trial.Judged,
		},
	}
	return aggregate.Aggregate(prompts, records, mapper)
}

func testReport(d time.Duration) *RunReport {
	return New(Run{
		ID:         "run-1",
		TestModel:  "qwen/qwen3-235b-a22b",
		JudgeModel: "gpt-5-nano-2025-08-07",
		Start:      start,
		End:        start.Add(d),
		Cost: usage.Summary{
			Test:  usage.RoleCost{Model: "qwen/qwen3-235b-a22b", Calls: 2, InputTokens: 200, OutputTokens: 400, TotalCost: 0.0002520, Priced: true},
			Judge: usage.RoleCost{Model: "gpt-5-nano-2025-08-07", Calls: 1, InputTokens: 900, OutputTokens: 100, TotalCost: 0.000085, Priced: true},
			Total: usage.RoleCost{Calls: 3, InputTokens: 1100, OutputTokens: 500, TotalCost: 0.000337},
		},
	}, testResult())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.50 seconds"},
		{59 * time.Second, "59.00 seconds"},
		{90 * time.Second, "1.50 minutes (90.00 seconds)"},
		{2*time.Hour + 15*time.Minute, "2.25 hours (135.00 minutes)"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestNewExecutionTime(t *testing.T) {
	got := NewExecutionTime(start, start.Add(5*time.Minute+3*time.Second))
	want := ExecutionTime{
		StartTime:       start,
		EndTime:         start.Add(5*time.Minute + 3*time.Second),
		DurationSeconds: 303,
		DurationMinutes: 5.05,
		DurationHours:   0.08,
		Formatted:       "5.05 minutes (303.00 seconds)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewExecutionTime (-want +got):\n%s", diff)
	}
}

func TestNew(t *testing.T) {
	rep := testReport(90 * time.Second)

	md := rep.Metadata
	assert.Equal(t, "run-1", md.RunID)
	assert.Equal(t, 2, md.PromptsEvaluated)
	assert.Equal(t, 1, md.Errors)
	assert.Equal(t, start.Add(90*time.Second), md.Timestamp)
	assert.Equal(t, aggregate.Stats{Trials: 2, Scored: 1, Mean: 4, Distribution: [5]int{0, 0, 0, 1, 0}}, md.ScoreSummary)
	assert.Equal(t, []string{"warning_present"}, rep.Columns())

	require.Len(t, rep.Results, 2)
	assert.Equal(t, "p1", rep.Results[0].PromptID)
	assert.Equal(t, "p2", rep.Results[1].PromptID)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, testReport(90*time.Second)))

	var got struct {
		Metadata map[string]any   `json:"metadata"`
		Results  []map[string]any `json:"results"`
		Errors   []map[string]any `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "run-1", got.Metadata["run_id"])
	assert.Equal(t, "gpt-5-nano-2025-08-07", got.Metadata["judge_model"])
	assert.EqualValues(t, 2, got.Metadata["prompts_evaluated"])
	assert.EqualValues(t, 1, got.Metadata["errors"])

	exec, ok := got.Metadata["execution_time"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1.50 minutes (90.00 seconds)", exec["formatted"])
	assert.EqualValues(t, 1.5, exec["duration_minutes"])

	cost, ok := got.Metadata["cost_summary"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, cost, "test_model")
	assert.Contains(t, cost, "judge_model")
	assert.Contains(t, cost, "total")

	require.Len(t, got.Results, 2)
	assert.EqualValues(t, 4, got.Results[0]["mean_score"])
	assert.Nil(t, got.Results[1]["mean_score"])

	trials, ok := got.Results[1]["trials"].([]any)
	require.True(t, ok)
	require.Len(t, trials, 1)
	assert.Equal(t, map[string]any{
		"prompt_id":  "p2",
		"test_model": "qwen/qwen3-235b-a22b",
		"error":      "empty response",
	}, trials[0])

	assert.Equal(t, []map[string]any{{
		"prompt_id":  "p2",
		"test_model": "qwen/qwen3-235b-a22b",
		"error":      "empty response",
	}}, got.Errors)
}
