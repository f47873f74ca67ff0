/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scheduler

import (
	"errors"

	"chainguard.dev/promptjudge/agents/aggregate"
)

// Option configures a Scheduler.
type Option func(*Scheduler) error

// WithFlagMapper sets the mapper used to fold judge flags onto report columns.
func WithFlagMapper(m *aggregate.FlagMapper) Option {
	return func(s *Scheduler) error {
		if m == nil {
			return errors.New("flag mapper cannot be nil")
		}
		s.mapper = m
		return nil
	}
}

// WithProgress registers a callback for progress reports.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Scheduler) error {
		s.progress = fn
		return nil
	}
}
