/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trial

import (
	"chainguard.dev/promptjudge/agents/judge"
)

// Record is the terminal result of one evaluation unit. A successful record
// carries the response and its evaluation; a failed one carries only the
// prompt id, the test model and the error text.
type Record struct {
	PromptID      string            `json:"prompt_id"`
	Category      string            `json:"category,omitempty"`
	Subcategory   string            `json:"subcategory,omitempty"`
	TestModel     string            `json:"test_model"`
	JudgeModel    string            `json:"judge_model,omitempty"`
	TestPrompt    string            `json:"test_prompt,omitempty"`
	ModelResponse string            `json:"model_response,omitempty"`
	Evaluation    *judge.Evaluation `json:"evaluation,omitempty"`

	// ResponseTruncated marks a response that was still cut off at the
	// largest token budget and kept as partial content.
	ResponseTruncated bool `json:"response_truncated,omitempty"`

	Error string `json:"error,omitempty"`

	// Index is the prompt's position in its batch. It orders trials of the
	// same prompt independently of completion order.
	Index int `json:"-"`

	State State `json:"-"`
	Err   error `json:"-"`
}

// Failed reports whether the unit ended in an error record.
func (r *Record) Failed() bool {
	return r.State == Failed
}

// Score returns the judge score and whether there is one.
func (r *Record) Score() (int, bool) {
	if r.Evaluation == nil {
		return 0, false
	}
	return r.Evaluation.Score, true
}

// FailureRecord builds the error record for a prompt that never produced a
// result, e.g. one that was never admitted because the run was cancelled.
func FailureRecord(promptID, testModel string, err error) *Record {
	return &Record{
		PromptID:  promptID,
		TestModel: testModel,
		Error:     err.Error(),
		State:     Failed,
		Err:       err,
	}
}
