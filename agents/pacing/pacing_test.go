/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pacing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func recordingPacer(batchSize int, pause time.Duration) (*Pacer, *[]int64) {
	p := New(batchSize, pause)
	var pausedAt []int64
	p.wait = func(context.Context, time.Duration) error {
		// Called under p.mu, so reading completions directly is safe.
		pausedAt = append(pausedAt, p.completions)
		return nil
	}
	return p, &pausedAt
}

func TestPauseEveryBatch(t *testing.T) {
	t.Parallel()

	p, pausedAt := recordingPacer(5, time.Second)
	for range 12 {
		if err := p.OnComplete(context.Background()); err != nil {
			t.Fatalf("OnComplete() = %v", err)
		}
	}

	if diff := cmp.Diff([]int64{5, 10}, *pausedAt); diff != "" {
		t.Errorf("pauses mismatch (-want +got):\n%s", diff)
	}
	if got := p.Completions(); got != 12 {
		t.Errorf("Completions() = %d, wanted = %d", got, 12)
	}
	if got := p.Pauses(); got != 2 {
		t.Errorf("Pauses() = %d, wanted = %d", got, 2)
	}
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		batchSize int
		pause     time.Duration
	}{{
		name:      "zero batch",
		batchSize: 0,
		pause:     time.Second,
	}, {
		name:      "zero pause",
		batchSize: 5,
		pause:     0,
	}, {
		name:      "negative batch",
		batchSize: -3,
		pause:     time.Second,
	}, {
		name:      "negative pause",
		batchSize: 1,
		pause:     -time.Second,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, pausedAt := recordingPacer(tt.batchSize, tt.pause)
			if p.Enabled() {
				t.Error("Enabled() = true, wanted = false")
			}
			for range 20 {
				if err := p.OnComplete(context.Background()); err != nil {
					t.Fatalf("OnComplete() = %v", err)
				}
			}
			if len(*pausedAt) != 0 {
				t.Errorf("paused at %v, wanted no pauses", *pausedAt)
			}
			if got := p.Completions(); got != 20 {
				t.Errorf("Completions() = %d, wanted = %d", got, 20)
			}
		})
	}
}

func TestPauseBlocksOtherCompletions(t *testing.T) {
	t.Parallel()

	p := New(1, 50*time.Millisecond)

	var wg sync.WaitGroup
	start := time.Now()
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.OnComplete(context.Background())
		}()
	}
	wg.Wait()

	// Every completion closes a batch of one, and pauses are serialized.
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("three pauses took %v, wanted at least 150ms", elapsed)
	}
	if got := p.Pauses(); got != 3 {
		t.Errorf("Pauses() = %d, wanted = %d", got, 3)
	}
}

func TestPauseCanceled(t *testing.T) {
	t.Parallel()

	p := New(1, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.OnComplete(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("OnComplete() = %v, wanted %v", err, context.Canceled)
	}
	if got := p.Completions(); got != 1 {
		t.Errorf("Completions() = %d, wanted = %d", got, 1)
	}
}
