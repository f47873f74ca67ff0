/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package scheduler runs one evaluation unit per prompt with bounded
// concurrency and aggregates the records.
//
// Slots come from a weighted semaphore acquired in prompt order, so at most
// the configured number of units make remote calls at once and the rest wait
// their turn. A unit keeps its slot until it has fully terminated, including
// any batch pause, so a pause also holds back admission.
//
// A run always yields one record per prompt. Prompts that were never
// admitted because the context ended get an error record.
package scheduler
