/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package callexecutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chainguard.dev/promptjudge/agents/agenttrace"
	"chainguard.dev/promptjudge/agents/executor/retry"
	"chainguard.dev/promptjudge/agents/metrics"
	"chainguard.dev/promptjudge/agents/model"
	"github.com/chainguard-dev/clog"
	"golang.org/x/time/rate"
)

// UsageRecorder receives the token usage of every attempt that reported any.
type UsageRecorder interface {
	Record(ctx context.Context, role model.Role, inputTokens, outputTokens int64)
}

// Validator checks the content of a reply. A non-nil error classifies the
// attempt as malformed.
type Validator func(content string) error

// Request describes one logical call; the executor may issue several attempts for it.
type Request struct {
	Role   model.Role
	Model  string
	Prompt string

	// MaxTokens is the token budget of the first attempt.
	MaxTokens int64
	// MaxTokensCeiling caps budget escalation on truncation.
	// Zero means eight times MaxTokens.
	MaxTokensCeiling int64

	// Structured requests JSON output from the provider.
	Structured bool
}

func (r Request) ceiling() int64 {
	if r.MaxTokensCeiling > 0 {
		return max(r.MaxTokensCeiling, r.MaxTokens)
	}
	return r.MaxTokens * 8
}

// Result is the content returned by a call along with how it was obtained.
type Result struct {
	Content string
	// Attempts is the number of attempts issued, including the successful one.
	Attempts int
	// MaxTokens is the budget of the final attempt.
	MaxTokens int64
	// Truncated is set when the content is a partial reply returned after the
	// last attempt was still truncated.
	Truncated bool
}

// Executor issues remote calls with bounded retries, exponential backoff and
// token-budget escalation on truncation. It is safe for concurrent use.
type Executor struct {
	client          model.Client
	usage           UsageRecorder
	metrics         *metrics.GenAI
	maxAttempts     int
	backoff         retry.RetryConfig
	truncationPause time.Duration
	limiter         *rate.Limiter
	sleep           func(context.Context, time.Duration) error
}

// New creates an Executor around client.
func New(client model.Client, opts ...Option) (*Executor, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}

	e := &Executor{
		client:          client,
		maxAttempts:     5,
		backoff:         retry.DefaultRetryConfig(),
		truncationPause: time.Second,
		sleep:           retry.Sleep,
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return e, nil
}

// attempt is the classified result of a single remote call.
type attempt struct {
	outcome Outcome
	content string
	finish  model.FinishReason
	usage   *model.Usage
	err     error
}

// Execute runs req until it succeeds, fails terminally, or attempts run out.
// validate may be nil; the judge role passes one to detect malformed output.
func (e *Executor) Execute(ctx context.Context, req Request, validate Validator) (res *Result, err error) {
	if req.MaxTokens <= 0 {
		return nil, fmt.Errorf("max tokens must be positive, got %d", req.MaxTokens)
	}

	ctx, span := agenttrace.StartCall(ctx, req.Role.String(), req.Model)
	defer func() {
		span.Complete(err)
	}()

	log := clog.FromContext(ctx).With("role", req.Role.String()).With("model", req.Model)

	budget := req.MaxTokens
	ceiling := req.ceiling()

	var last attempt
	for n := 0; n < e.maxAttempts; n++ {
		final := n == e.maxAttempts-1

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		last = e.try(ctx, req, budget, validate)
		span.RecordAttempt(n+1, last.outcome.String(), budget)
		if last.usage != nil {
			span.RecordTokenUsage(last.usage.InputTokens, last.usage.OutputTokens)
		}
		if e.metrics != nil {
			e.metrics.RecordAttempt(ctx, req.Model, req.Role.String(), last.outcome.String())
		}

		alog := log.With("attempt", n+1).With("max_attempts", e.maxAttempts)

		switch last.outcome {
		case OutcomeSuccess:
			if n > 0 {
				alog.Info("Call succeeded on retry")
			}
			return &Result{Content: last.content, Attempts: n + 1, MaxTokens: budget}, nil

		case OutcomePermanentError:
			alog.With("error", last.err.Error()).Error("Call failed with a non-retryable error")
			return nil, last.err

		case OutcomeTruncated:
			if final {
				return e.finishTruncated(ctx, req, last, budget, n+1, validate)
			}
			budget = min(budget*2, ceiling)
			alog.With("max_tokens", budget).
				Warn("Response truncated (length limit reached), retrying with a larger token budget")
			if err := e.sleep(ctx, e.truncationPause); err != nil {
				return nil, err
			}
			continue

		case OutcomeEmpty:
			alog.With("finish_reason", string(last.finish)).Warn("Model returned an empty response")

		case OutcomeMalformed:
			alog.With("error", last.err.Error()).Warn("Model returned malformed structured output")

		case OutcomeTransportError:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			alog.With("error", last.err.Error()).Warn("Call failed")
		}

		if final || !last.outcome.Retryable() {
			break
		}

		wait := e.backoff.Backoff(n)
		alog.With("backoff", wait).Info("Retrying after backoff")
		if err := e.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, e.exhausted(req, last)
}

// try issues one attempt and classifies it. Usage is recorded here, once per
// attempt that reported any, regardless of the outcome.
func (e *Executor) try(ctx context.Context, req Request, budget int64, validate Validator) attempt {
	completion, err := e.client.Complete(ctx, model.Request{
		Model:      req.Model,
		Prompt:     req.Prompt,
		MaxTokens:  budget,
		Structured: req.Structured,
	})

	var usage *model.Usage
	if completion != nil && completion.Usage != nil {
		usage = completion.Usage
		if e.usage != nil {
			e.usage.Record(ctx, req.Role, usage.InputTokens, usage.OutputTokens)
		}
	}

	switch {
	case err != nil && model.IsPermanent(err):
		return attempt{outcome: OutcomePermanentError, err: err, usage: usage}
	case err != nil:
		return attempt{outcome: OutcomeTransportError, err: err, usage: usage}
	case completion == nil:
		return attempt{outcome: OutcomeEmpty, finish: model.FinishOther}
	}

	a := attempt{content: completion.Content, finish: completion.FinishReason, usage: usage}
	switch {
	case completion.FinishReason == model.FinishLength:
		a.outcome = OutcomeTruncated
	case strings.TrimSpace(a.content) == "":
		a.outcome = OutcomeEmpty
	case validate != nil:
		if a.err = validate(a.content); a.err != nil {
			a.outcome = OutcomeMalformed
		} else {
			a.outcome = OutcomeSuccess
		}
	default:
		a.outcome = OutcomeSuccess
	}
	return a
}

// finishTruncated handles a reply still truncated on the last attempt:
// partial content is returned as a success, no content is terminal.
func (e *Executor) finishTruncated(ctx context.Context, req Request, last attempt, budget int64, attempts int, validate Validator) (*Result, error) {
	if strings.TrimSpace(last.content) == "" {
		return nil, &TruncatedEmptyError{Role: req.Role, Model: req.Model, MaxTokens: budget, Attempts: attempts}
	}
	if validate != nil {
		if err := validate(last.content); err != nil {
			return nil, &MalformedJudgeOutputError{Model: req.Model, Attempts: attempts, Content: last.content, Err: err}
		}
	}
	clog.FromContext(ctx).With("role", req.Role.String()).
		With("model", req.Model).
		With("max_tokens", budget).
		Warn("Response was truncated, returning partial content")
	return &Result{Content: last.content, Attempts: attempts, MaxTokens: budget, Truncated: true}, nil
}

// exhausted turns the last retryable attempt into the terminal error.
func (e *Executor) exhausted(req Request, last attempt) error {
	switch last.outcome {
	case OutcomeEmpty:
		return &EmptyResponseError{Role: req.Role, Model: req.Model, FinishReason: last.finish, Attempts: e.maxAttempts}
	case OutcomeMalformed:
		return &MalformedJudgeOutputError{Model: req.Model, Attempts: e.maxAttempts, Content: last.content, Err: last.err}
	case OutcomeTransportError:
		return &TransientTransportError{Role: req.Role, Model: req.Model, Attempts: e.maxAttempts, Err: last.err}
	default:
		return fmt.Errorf("%s call to %s failed after %d attempts", req.Role, req.Model, e.maxAttempts)
	}
}
