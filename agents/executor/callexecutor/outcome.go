/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package callexecutor

// Outcome classifies a single attempt at a remote call. The retry loop
// decides what to do next from the Outcome alone.
type Outcome int

const (
	// OutcomeSuccess means usable content came back.
	OutcomeSuccess Outcome = iota
	// OutcomeTruncated means the reply hit its token budget.
	OutcomeTruncated
	// OutcomeEmpty means the call succeeded but returned no content.
	OutcomeEmpty
	// OutcomeMalformed means content came back but failed validation.
	OutcomeMalformed
	// OutcomeTransportError means the call itself failed and may be retried.
	OutcomeTransportError
	// OutcomePermanentError means the call failed in a way retrying cannot fix.
	OutcomePermanentError
)

var outcomeNames = map[Outcome]string{
	OutcomeSuccess:        "success",
	OutcomeTruncated:      "truncated",
	OutcomeEmpty:          "empty",
	OutcomeMalformed:      "malformed",
	OutcomeTransportError: "transport_error",
	OutcomePermanentError: "permanent_error",
}

// String implements fmt.Stringer
func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// Retryable reports whether the loop should try again after this outcome,
// attempts permitting.
func (o Outcome) Retryable() bool {
	switch o {
	case OutcomeTruncated, OutcomeEmpty, OutcomeMalformed, OutcomeTransportError:
		return true
	default:
		return false
	}
}
