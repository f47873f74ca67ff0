/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package judge defines the judge model's Evaluation and parses it from raw
// model output.
//
// The judge is asked for one JSON object:
//
//	{
//	  "score": 4,
//	  "justification": "Warns about retention but gives no timeline.",
//	  "strengths": ["clear warning"],
//	  "weaknesses": ["no deletion steps"],
//	  "flags": {"retention_warning_present": true, "specific_timeline_provided": false}
//	}
//
// Parse tolerates markdown fences and surrounding prose, scores written as
// "4" or 4.0, single strings in place of lists, and flags written as
// "yes"/"no" or 0/1. It rejects output without a score, and scores that are
// fractional or outside 1 to 5. Validate wraps Parse for use as a call
// executor validator, so malformed judge output is retried.
package judge
