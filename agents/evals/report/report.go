/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"chainguard.dev/promptjudge/agents/aggregate"
	"chainguard.dev/promptjudge/agents/usage"
)

// Run identifies one evaluation run.
type Run struct {
	ID         string
	TestModel  string
	JudgeModel string
	Start      time.Time
	End        time.Time
	Cost       usage.Summary
}

// ExecutionTime is the wall clock span of a run. Durations are rounded to
// two decimals.
type ExecutionTime struct {
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	DurationMinutes float64   `json:"duration_minutes"`
	DurationHours   float64   `json:"duration_hours"`
	Formatted       string    `json:"formatted"`
}

// Metadata describes a run.
type Metadata struct {
	RunID            string          `json:"run_id"`
	TestModel        string          `json:"test_model"`
	JudgeModel       string          `json:"judge_model"`
	Timestamp        time.Time       `json:"timestamp"`
	PromptsEvaluated int             `json:"prompts_evaluated"`
	Errors           int             `json:"errors"`
	ExecutionTime    ExecutionTime   `json:"execution_time"`
	ScoreSummary     aggregate.Stats `json:"score_summary"`
	CostSummary      usage.Summary   `json:"cost_summary"`
}

// RunReport is everything a run persists.
type RunReport struct {
	Metadata Metadata               `json:"metadata"`
	Results  []aggregate.Group      `json:"results"`
	Errors   []aggregate.ErrorEntry `json:"errors"`

	columns []string
}

// New builds the report of a finished run.
func New(run Run, res *aggregate.Result) *RunReport {
	stats := res.Stats()
	return &RunReport{
		Metadata: Metadata{
			RunID:            run.ID,
			TestModel:        run.TestModel,
			JudgeModel:       run.JudgeModel,
			Timestamp:        run.End,
			PromptsEvaluated: len(res.Groups),
			Errors:           len(res.Errors),
			ExecutionTime:    NewExecutionTime(run.Start, run.End),
			ScoreSummary:     stats,
			CostSummary:      run.Cost,
		},
		Results: res.Groups,
		Errors:  res.Errors,
		columns: res.Columns,
	}
}

// Columns returns the flag columns of the tabular summary.
func (r *RunReport) Columns() []string {
	return r.columns
}

// NewExecutionTime measures the span from start to end.
func NewExecutionTime(start, end time.Time) ExecutionTime {
	d := end.Sub(start)
	return ExecutionTime{
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: round2(d.Seconds()),
		DurationMinutes: round2(d.Minutes()),
		DurationHours:   round2(d.Hours()),
		Formatted:       FormatDuration(d),
	}
}

// FormatDuration renders d in the largest unit that is at least one, with the
// next smaller unit in parentheses.
func FormatDuration(d time.Duration) string {
	switch {
	case d.Hours() >= 1:
		return fmt.Sprintf("%.2f hours (%.2f minutes)", d.Hours(), d.Minutes())
	case d.Minutes() >= 1:
		return fmt.Sprintf("%.2f minutes (%.2f seconds)", d.Minutes(), d.Seconds())
	default:
		return fmt.Sprintf("%.2f seconds", d.Seconds())
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// WriteJSON writes the full report as indented JSON.
func WriteJSON(w io.Writer, r *RunReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}
