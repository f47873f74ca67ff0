/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package model

import (
	"context"
	"errors"
)

// Role identifies which side of an evaluation a remote call serves.
type Role string

const (
	// RoleGenerate asks the model under test to answer a prompt.
	RoleGenerate Role = "generate"
	// RoleJudge asks the judge model to score an answer.
	RoleJudge Role = "judge"
)

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}

// FinishReason is the provider-neutral reason a completion stopped.
type FinishReason string

const (
	// FinishStop means the model ended its answer naturally.
	FinishStop FinishReason = "stop"
	// FinishLength means the answer hit the token budget.
	FinishLength FinishReason = "length"
	// FinishOther covers content filters, safety stops and unknown reasons.
	FinishOther FinishReason = "other"
)

// Request describes a single remote completion.
type Request struct {
	// Model is the provider model name.
	Model string

	// Prompt is the user message sent to the model.
	Prompt string

	// MaxTokens is the output token budget for this attempt.
	MaxTokens int64

	// Structured asks the provider for machine-parseable JSON output.
	Structured bool
}

// Usage is the token usage reported for one completion.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Completion is the provider-neutral result of a remote call.
type Completion struct {
	Content      string
	FinishReason FinishReason
	// Usage is nil when the provider reported no usage metadata.
	Usage *Usage
}

// Client performs remote completions. Implementations must be safe for
// concurrent use; the same Client is shared by every evaluation unit.
type Client interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (*Completion, error)

// Complete implements Client
func (f ClientFunc) Complete(ctx context.Context, req Request) (*Completion, error) {
	return f(ctx, req)
}

// permanentError marks an error that retrying cannot fix.
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as non-retryable. A nil error stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err, or anything it wraps, was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
