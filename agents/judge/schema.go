/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"chainguard.dev/promptjudge/agents/schema"
)

// SchemaName names the response format sent with structured judge requests.
const SchemaName = "evaluation"

// Schema returns the JSON schema of Evaluation in the map form that
// structured-output request parameters accept.
func Schema() (map[string]any, error) {
	return schema.ToMap(schema.ReflectType[Evaluation]())
}
