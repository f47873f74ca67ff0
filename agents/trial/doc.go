/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package trial runs evaluation units. A unit asks the test model a prompt,
// renders the rubric with the prompt and the answer, asks the judge model
// to grade it, and produces exactly one Record.
//
// A unit moves through
//
//	pending -> generating -> generated -> judging -> judged
//
// and may end in failed from generating or judging. Failures become error
// records; Run never returns an error. Once a unit terminates, the batch
// pacer is notified exactly once.
package trial
