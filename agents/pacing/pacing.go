/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package pacing inserts a cooldown after every N completed evaluation units.
package pacing

import (
	"context"
	"sync"
	"time"

	"chainguard.dev/promptjudge/agents/executor/retry"
	"github.com/chainguard-dev/clog"
)

// Pacer counts completed units and pauses the caller after every batchSize of them.
//
// The pause runs while holding the Pacer's lock, so any other unit finishing
// during a pause blocks in OnComplete too. Callers invoke OnComplete while still
// holding their concurrency slot, which keeps new units from being admitted.
type Pacer struct {
	batchSize int64
	pause     time.Duration
	wait      func(context.Context, time.Duration) error

	mu          sync.Mutex
	completions int64
	pauses      int64
}

// New returns a Pacer. It is a no-op when batchSize or pause is not positive.
func New(batchSize int, pause time.Duration) *Pacer {
	return &Pacer{
		batchSize: int64(batchSize),
		pause:     pause,
		wait:      retry.Sleep,
	}
}

// Enabled reports whether the Pacer ever pauses.
func (p *Pacer) Enabled() bool {
	return p.batchSize > 0 && p.pause > 0
}

// OnComplete records one terminated unit and pauses if it closes a batch.
// It returns ctx's error if the context ends during the pause.
func (p *Pacer) OnComplete(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.completions++
	if !p.Enabled() || p.completions%p.batchSize != 0 {
		return nil
	}

	p.pauses++
	clog.FromContext(ctx).With("completed", p.completions).
		With("pause", p.pause).
		Info("Batch complete, pausing to respect provider rate limits")
	return p.wait(ctx, p.pause)
}

// Completions returns the number of units recorded so far.
func (p *Pacer) Completions() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completions
}

// Pauses returns the number of pauses taken so far.
func (p *Pacer) Pauses() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pauses
}
