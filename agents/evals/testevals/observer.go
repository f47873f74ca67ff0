/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package testevals

import (
	"fmt"
	"sync/atomic"
	"testing"

	"chainguard.dev/promptjudge/agents/evals"
)

// observer wraps a testing.TB to implement evals.Observer. Any Fail call
// fails the test, so it suits runs where every unit is expected to succeed.
type observer struct {
	tb     testing.TB
	prefix string
	count  int64
}

// New creates a new Observer from a testing.TB
func New(t testing.TB) evals.Observer {
	return &observer{tb: t}
}

// NewPrefix creates a new Observer from a testing.TB with a message prefix,
// typically the namespace handed out by evals.NewNamespacedObserver.
func NewPrefix(t testing.TB, prefix string) evals.Observer {
	return &observer{tb: t, prefix: prefix}
}

// Fail marks the test as failed with the given message
func (o *observer) Fail(msg string) {
	if o.prefix != "" {
		o.tb.Errorf("%s: %s", o.prefix, msg)
	} else {
		o.tb.Error(msg)
	}
}

// Log logs a message
func (o *observer) Log(msg string) {
	if o.prefix != "" {
		o.tb.Logf("%s: %s", o.prefix, msg)
	} else {
		o.tb.Log(msg)
	}
}

// Grade logs the judge score and fails the test when it is off the 1-5 scale
func (o *observer) Grade(score float64, reasoning string) {
	if score < 1 || score > 5 {
		o.Fail(fmt.Sprintf("score %v is outside 1-5", score))
	}
	msg := fmt.Sprintf("Score: %.0f - %s", score, reasoning)
	if o.prefix != "" {
		o.tb.Logf("%s: %s", o.prefix, msg)
	} else {
		o.tb.Log(msg)
	}
}

// Increment increments the observation counter
func (o *observer) Increment() {
	atomic.AddInt64(&o.count, 1)
}

// Total returns the number of observed instances
func (o *observer) Total() int64 {
	return atomic.LoadInt64(&o.count)
}
