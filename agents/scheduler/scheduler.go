/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"chainguard.dev/promptjudge/agents/agenttrace"
	"chainguard.dev/promptjudge/agents/aggregate"
	"chainguard.dev/promptjudge/agents/promptset"
	"chainguard.dev/promptjudge/agents/trial"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ProgressInterval is how many completions pass between progress reports.
const ProgressInterval = 10

// Runner evaluates one prompt. *trial.Runner implements it.
type Runner interface {
	Run(ctx context.Context, p promptset.Prompt) *trial.Record
	TestModel() string
}

// ProgressFunc is called after every ProgressInterval completions and after
// the last one.
type ProgressFunc func(completed, total int)

// Scheduler fans prompts out to a Runner.
type Scheduler struct {
	runner      Runner
	concurrency int
	mapper      *aggregate.FlagMapper
	progress    ProgressFunc
}

// New creates a Scheduler that runs at most concurrency units at once.
func New(runner Runner, concurrency int, opts ...Option) (*Scheduler, error) {
	if runner == nil {
		return nil, errors.New("runner cannot be nil")
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	s := &Scheduler{
		runner:      runner,
		concurrency: concurrency,
		mapper:      aggregate.DefaultFlagMapper(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return s, nil
}

// RunBatch evaluates every prompt and returns the aggregated result. It never
// fails: unit errors and cancellation end up as error records.
func (s *Scheduler) RunBatch(ctx context.Context, prompts []promptset.Prompt) *aggregate.Result {
	log := clog.FromContext(ctx)
	total := len(prompts)
	log.With("prompts", total).With("concurrency", s.concurrency).Info("Starting batch")

	sem := semaphore.NewWeighted(int64(s.concurrency))
	var g errgroup.Group

	var mu sync.Mutex
	records := make([]*trial.Record, 0, total)
	collect := func(rec *trial.Record) {
		mu.Lock()
		defer mu.Unlock()
		records = append(records, rec)
		if completed := len(records); completed%ProgressInterval == 0 || completed == total {
			s.report(ctx, completed, total)
		}
	}

	admitted := 0
	for i, p := range prompts {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		admitted++
		g.Go(func() error {
			defer sem.Release(1)
			collect(s.runUnit(ctx, i, p))
			return nil
		})
	}
	_ = g.Wait()

	if skipped := prompts[admitted:]; len(skipped) > 0 {
		cause := fmt.Errorf("not started: %w", context.Cause(ctx))
		log.With("skipped", len(skipped)).With("error", cause.Error()).Warn("Batch cancelled before all prompts started")
		for i, p := range skipped {
			rec := trial.FailureRecord(p.ID, s.runner.TestModel(), cause)
			rec.Index = admitted + i
			collect(rec)
		}
	}

	res := aggregate.Aggregate(prompts, records, s.mapper)
	log.With("groups", len(res.Groups)).With("errors", len(res.Errors)).Info("Batch complete")
	return res
}

func (s *Scheduler) runUnit(ctx context.Context, index int, p promptset.Prompt) (rec *trial.Record) {
	execCtx := agenttrace.GetExecutionContext(ctx)
	execCtx.PromptID = p.ID
	execCtx.Category = p.Category
	ctx = agenttrace.WithExecutionContext(ctx, execCtx)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("unit panicked: %v", r)
			clog.FromContext(ctx).With("prompt_id", p.ID).With("error", err.Error()).Error("Unit panicked")
			rec = trial.FailureRecord(p.ID, s.runner.TestModel(), err)
		}
		rec.Index = index
	}()

	rec = s.runner.Run(ctx, p)
	if rec == nil {
		rec = trial.FailureRecord(p.ID, s.runner.TestModel(), errors.New("unit returned no record"))
	}
	return rec
}

func (s *Scheduler) report(ctx context.Context, completed, total int) {
	clog.FromContext(ctx).With("completed", completed).With("total", total).
		Infof("Progress: %d/%d prompts completed", completed, total)
	if s.progress != nil {
		s.progress(completed, total)
	}
}
