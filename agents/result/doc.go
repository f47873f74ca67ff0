/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package result extracts JSON objects from model responses.

Judge models are asked for a single JSON object but do not always comply:
some wrap it in a markdown fence, some add a sentence before or after it.
ExtractJSON recovers the object in each of these shapes:

	{"score": 4}

	```json
	{"score": 4}
	```

	Here is my evaluation: {"score": 4} Let me know if you need more.

Extract combines ExtractJSON with json.Unmarshal:

	eval, err := result.Extract[judge.Evaluation](content)
	if err != nil {
		return fmt.Errorf("failed to parse judge output: %w", err)
	}

All functions are safe for concurrent use.
*/
package result
