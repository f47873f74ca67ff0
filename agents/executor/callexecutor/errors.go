/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package callexecutor

import (
	"fmt"

	"chainguard.dev/promptjudge/agents/model"
)

// EmptyResponseError is returned when every attempt came back without content.
type EmptyResponseError struct {
	Role         model.Role
	Model        string
	FinishReason model.FinishReason
	Attempts     int
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("%s model %s returned an empty response (finish_reason: %s) after %d attempts",
		e.Role, e.Model, e.FinishReason, e.Attempts)
}

// TruncatedEmptyError is returned when the reply was still truncated on the
// last attempt and carried no partial content.
type TruncatedEmptyError struct {
	Role      model.Role
	Model     string
	MaxTokens int64
	Attempts  int
}

func (e *TruncatedEmptyError) Error() string {
	return fmt.Sprintf("%s model %s response was truncated and content is empty (max_tokens: %d) after %d attempts",
		e.Role, e.Model, e.MaxTokens, e.Attempts)
}

// MalformedJudgeOutputError is returned when the judge's content never
// validated as a structured evaluation.
type MalformedJudgeOutputError struct {
	Model    string
	Attempts int
	Content  string
	Err      error
}

func (e *MalformedJudgeOutputError) Error() string {
	return fmt.Sprintf("failed to parse structured output from judge model %s after %d attempts: %v",
		e.Model, e.Attempts, e.Err)
}

func (e *MalformedJudgeOutputError) Unwrap() error { return e.Err }

// TransientTransportError wraps the last retryable transport error once
// attempts are exhausted.
type TransientTransportError struct {
	Role     model.Role
	Model    string
	Attempts int
	Err      error
}

func (e *TransientTransportError) Error() string {
	return fmt.Sprintf("%s call to %s failed after %d attempts: %v", e.Role, e.Model, e.Attempts, e.Err)
}

func (e *TransientTransportError) Unwrap() error { return e.Err }
