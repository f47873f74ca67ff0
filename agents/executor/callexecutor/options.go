/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package callexecutor

import (
	"errors"
	"fmt"
	"time"

	"chainguard.dev/promptjudge/agents/executor/retry"
	"chainguard.dev/promptjudge/agents/metrics"
	"golang.org/x/time/rate"
)

// Option is a functional option for configuring the executor
type Option func(*Executor) error

// WithMaxAttempts sets the total number of attempts per call (default 5).
func WithMaxAttempts(n int) Option {
	return func(e *Executor) error {
		if n <= 0 {
			return fmt.Errorf("max attempts must be positive, got %d", n)
		}
		e.maxAttempts = n
		return nil
	}
}

// WithBackoff sets the wait schedule between failed attempts.
// Only BaseBackoff, MaxBackoff and MaxJitter are used; WithMaxAttempts bounds the loop.
func WithBackoff(cfg retry.RetryConfig) Option {
	return func(e *Executor) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.backoff = cfg
		return nil
	}
}

// WithTruncationPause sets the wait before retrying a truncated reply with a larger budget (default 1s).
func WithTruncationPause(d time.Duration) Option {
	return func(e *Executor) error {
		if d < 0 {
			return fmt.Errorf("truncation pause cannot be negative, got %v", d)
		}
		e.truncationPause = d
		return nil
	}
}

// WithRateLimit caps attempts at limit per second with the given burst,
// shared by every call made through the executor.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(e *Executor) error {
		if limit <= 0 {
			return fmt.Errorf("rate limit must be positive, got %v", limit)
		}
		if burst <= 0 {
			return fmt.Errorf("rate limit burst must be positive, got %d", burst)
		}
		e.limiter = rate.NewLimiter(limit, burst)
		return nil
	}
}

// WithUsageRecorder reports every attempt's token usage to r.
func WithUsageRecorder(r UsageRecorder) Option {
	return func(e *Executor) error {
		if r == nil {
			return errors.New("usage recorder cannot be nil")
		}
		e.usage = r
		return nil
	}
}

// WithMetrics sets the OpenTelemetry metrics used to count attempts by outcome.
func WithMetrics(m *metrics.GenAI) Option {
	return func(e *Executor) error {
		if m == nil {
			return errors.New("metrics cannot be nil")
		}
		e.metrics = m
		return nil
	}
}
