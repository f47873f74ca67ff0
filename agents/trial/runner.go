/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trial

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/promptjudge/agents/agenttrace"
	"chainguard.dev/promptjudge/agents/evals"
	"chainguard.dev/promptjudge/agents/executor/callexecutor"
	"chainguard.dev/promptjudge/agents/executor/retry"
	"chainguard.dev/promptjudge/agents/judge"
	"chainguard.dev/promptjudge/agents/model"
	"chainguard.dev/promptjudge/agents/pacing"
	"chainguard.dev/promptjudge/agents/promptset"
	"chainguard.dev/promptjudge/agents/rubric"
	"github.com/chainguard-dev/clog"
)

// Executor runs one logical remote call. *callexecutor.Executor implements it.
type Executor interface {
	Execute(ctx context.Context, req callexecutor.Request, validate callexecutor.Validator) (*callexecutor.Result, error)
}

// Config holds the per-unit call settings.
type Config struct {
	TestModel  string
	JudgeModel string

	GenerateMaxTokens        int64
	GenerateMaxTokensCeiling int64
	JudgeMaxTokens           int64
	JudgeMaxTokensCeiling    int64

	// InterRequestDelay is waited once per unit before its first remote call.
	InterRequestDelay time.Duration
}

// Runner drives evaluation units: generate, then judge. It is safe for
// concurrent use; every unit shares the same executors, rubric and pacer.
type Runner struct {
	generate Executor
	judge    Executor
	rubric   *rubric.Template
	cfg      Config

	pacer   *pacing.Pacer
	observe func(promptset.Prompt) evals.Observer
	sleep   func(context.Context, time.Duration) error
}

// NewRunner creates a Runner. generate calls the test model and judge calls
// the judge model; they may be the same executor.
func NewRunner(generate, judge Executor, tmpl *rubric.Template, cfg Config, opts ...Option) (*Runner, error) {
	if generate == nil || judge == nil {
		return nil, errors.New("executors cannot be nil")
	}
	if tmpl == nil {
		return nil, errors.New("rubric cannot be nil")
	}
	if cfg.TestModel == "" || cfg.JudgeModel == "" {
		return nil, errors.New("test and judge models must be set")
	}
	if cfg.GenerateMaxTokens <= 0 || cfg.JudgeMaxTokens <= 0 {
		return nil, fmt.Errorf("token budgets must be positive, got generate=%d judge=%d",
			cfg.GenerateMaxTokens, cfg.JudgeMaxTokens)
	}
	if cfg.InterRequestDelay < 0 {
		return nil, fmt.Errorf("inter-request delay cannot be negative, got %v", cfg.InterRequestDelay)
	}

	r := &Runner{
		generate: generate,
		judge:    judge,
		rubric:   tmpl,
		cfg:      cfg,
		sleep:    retry.Sleep,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return r, nil
}

// TestModel returns the model under test.
func (r *Runner) TestModel() string {
	return r.cfg.TestModel
}

// Run evaluates one prompt and always returns a terminal record. Errors from
// either stage become a failed record and never propagate to the caller.
func (r *Runner) Run(ctx context.Context, p promptset.Prompt) (rec *Record) {
	ctx, span := agenttrace.StartUnit(ctx, p.ID, p.Category)
	log := clog.FromContext(ctx).With("prompt_id", p.ID)
	ctx = clog.WithLogger(ctx, log)

	obs := r.observer(p)
	m := &machine{state: Pending}

	defer func() {
		if v := recover(); v != nil {
			err := fmt.Errorf("unit panicked: %v", v)
			log.With("error", err.Error()).Error("Unit panicked")
			m.state = Failed
			rec = FailureRecord(p.ID, r.cfg.TestModel, err)
		}
		rec.State = m.state
		obs.Increment()
		if rec.Failed() {
			obs.Fail(rec.Error)
		} else {
			obs.Grade(float64(rec.Evaluation.Score), rec.Evaluation.Justification)
		}
		span.Complete(rec.Err)

		// The caller still holds its concurrency slot here, so a batch pause
		// also holds back admission of new units.
		if r.pacer != nil {
			if err := r.pacer.OnComplete(ctx); err != nil {
				log.With("error", err.Error()).Warn("Batch pause interrupted")
			}
		}
	}()

	m.advance(Generating)
	response, err := r.runGenerate(ctx, p)
	if err != nil {
		m.advance(Failed)
		log.With("error", err.Error()).Error("Generation failed")
		return FailureRecord(p.ID, r.cfg.TestModel, err)
	}
	m.advance(Generated)
	log.With("chars", len(response.Content)).Info("Model response received")

	m.advance(Judging)
	eval, err := r.runJudge(ctx, p, response.Content)
	if err != nil {
		m.advance(Failed)
		log.With("error", err.Error()).Error("Judging failed")
		return FailureRecord(p.ID, r.cfg.TestModel, err)
	}
	m.advance(Judged)
	log.With("score", eval.Score).Info("Judge completed")

	return &Record{
		PromptID:          p.ID,
		Category:          p.Category,
		Subcategory:       p.Subcategory,
		TestModel:         r.cfg.TestModel,
		JudgeModel:        r.cfg.JudgeModel,
		TestPrompt:        p.Text,
		ModelResponse:     response.Content,
		Evaluation:        eval,
		ResponseTruncated: response.Truncated,
	}
}

func (r *Runner) runGenerate(ctx context.Context, p promptset.Prompt) (*callexecutor.Result, error) {
	if r.cfg.InterRequestDelay > 0 {
		if err := r.sleep(ctx, r.cfg.InterRequestDelay); err != nil {
			return nil, err
		}
	}
	return r.generate.Execute(ctx, callexecutor.Request{
		Role:             model.RoleGenerate,
		Model:            r.cfg.TestModel,
		Prompt:           p.Text,
		MaxTokens:        r.cfg.GenerateMaxTokens,
		MaxTokensCeiling: r.cfg.GenerateMaxTokensCeiling,
	}, nil)
}

func (r *Runner) runJudge(ctx context.Context, p promptset.Prompt, response string) (*judge.Evaluation, error) {
	res, err := r.judge.Execute(ctx, callexecutor.Request{
		Role:             model.RoleJudge,
		Model:            r.cfg.JudgeModel,
		Prompt:           r.rubric.Render(p.Text, response),
		MaxTokens:        r.cfg.JudgeMaxTokens,
		MaxTokensCeiling: r.cfg.JudgeMaxTokensCeiling,
		Structured:       true,
	}, judge.Validate)
	if err != nil {
		return nil, err
	}
	// The executor already validated the content, so this cannot fail on a
	// well-behaved Executor.
	eval, err := judge.Parse(res.Content)
	if err != nil {
		return nil, &callexecutor.MalformedJudgeOutputError{
			Model: r.cfg.JudgeModel, Attempts: res.Attempts, Content: res.Content, Err: err,
		}
	}
	return eval, nil
}

func (r *Runner) observer(p promptset.Prompt) evals.Observer {
	if r.observe == nil {
		return evals.Multi()
	}
	return r.observe(p)
}
