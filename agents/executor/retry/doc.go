/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry holds the exponential backoff schedule shared by the call
// executor and the report sinks.
package retry
