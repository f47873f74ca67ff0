/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package model defines the provider-neutral contract between the evaluation
// orchestrator and remote completion APIs.
//
// Provider adapters (see the provider/* packages) translate SDK responses into
// a Completion with a normalized FinishReason and optional Usage, and mark
// errors that should not be retried with Permanent.
package model
