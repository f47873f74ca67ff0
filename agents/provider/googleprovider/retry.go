/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleprovider

import (
	"strings"

	"chainguard.dev/promptjudge/agents/model"
)

// isRetryableVertexError checks if an error is a retryable Gemini or Vertex AI error.
// Returns true for rate limit, quota exhaustion, and transient server errors.
func isRetryableVertexError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Resource exhausted") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "Overloaded") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "Internal error") ||
		strings.Contains(errStr, "server error")
}

// isPermanentVertexError checks for request errors that will fail the same way on retry.
func isPermanentVertexError(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "INVALID_ARGUMENT") ||
		strings.Contains(errStr, "PERMISSION_DENIED") ||
		strings.Contains(errStr, "UNAUTHENTICATED") ||
		strings.Contains(errStr, "NOT_FOUND") ||
		strings.Contains(errStr, "API key not valid")
}

// classify marks errors that are known not to be transient as permanent.
// Anything unrecognized, such as network failures, stays retryable.
func classify(err error) error {
	if err == nil || isRetryableVertexError(err) {
		return err
	}
	if isPermanentVertexError(err) {
		return model.Permanent(err)
	}
	return err
}
