/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trial

import (
	"errors"

	"chainguard.dev/promptjudge/agents/evals"
	"chainguard.dev/promptjudge/agents/pacing"
	"chainguard.dev/promptjudge/agents/promptset"
)

// Option is a functional option for configuring the Runner
type Option func(*Runner) error

// WithPacer notifies p once per terminated unit.
func WithPacer(p *pacing.Pacer) Option {
	return func(r *Runner) error {
		if p == nil {
			return errors.New("pacer cannot be nil")
		}
		r.pacer = p
		return nil
	}
}

// WithObserver reports each unit's outcome to the Observer returned for its
// prompt, typically a namespace selected by category and subcategory.
func WithObserver(fn func(promptset.Prompt) evals.Observer) Option {
	return func(r *Runner) error {
		if fn == nil {
			return errors.New("observer func cannot be nil")
		}
		r.observe = fn
		return nil
	}
}
