/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudeprovider adapts the Anthropic Messages API to model.Client,
// either directly with an API key or through Vertex AI.
//
// A stop reason of max_tokens maps to model.FinishLength. Structured requests
// add a system instruction asking for a bare JSON object.
package claudeprovider
