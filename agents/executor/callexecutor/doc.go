/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package callexecutor wraps a single remote model call with bounded retries.
//
// Every attempt is classified into an Outcome before the loop decides what to do:
//
//   - OutcomeSuccess returns the content.
//   - OutcomeTruncated doubles the token budget (up to the request's ceiling),
//     waits the truncation pause and tries again. If the last attempt is still
//     truncated, partial content is returned as a success with Result.Truncated
//     set; without content the call fails with TruncatedEmptyError.
//   - OutcomeEmpty and OutcomeMalformed back off exponentially and, once
//     attempts run out, fail with EmptyResponseError or MalformedJudgeOutputError.
//   - OutcomeTransportError backs off the same way and ends in
//     TransientTransportError wrapping the last error.
//   - OutcomePermanentError (errors marked with model.Permanent) fails at once.
//
// Usage from any attempt that reported it is handed to the UsageRecorder exactly
// once, whether or not the call eventually succeeds.
//
// # Basic Usage
//
//	exec, err := callexecutor.New(client,
//	    callexecutor.WithMaxAttempts(5),
//	    callexecutor.WithUsageRecorder(accountant),
//	)
//	if err != nil {
//	    return err
//	}
//
//	res, err := exec.Execute(ctx, callexecutor.Request{
//	    Role:             model.RoleJudge,
//	    Model:            "gpt-5-nano-2025-08-07",
//	    Prompt:           rendered,
//	    MaxTokens:        4000,
//	    MaxTokensCeiling: 8000,
//	    Structured:       true,
//	}, judge.Validate)
package callexecutor
