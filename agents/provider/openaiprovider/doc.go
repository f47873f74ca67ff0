/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiprovider adapts the OpenAI chat completions API, and any
// OpenAI-compatible endpoint such as OpenRouter, to model.Client.
//
//	client := openaiprovider.NewClient(key, openaiprovider.OpenRouterBaseURL, map[string]string{
//	    "X-Title": "Privacy Evaluation",
//	})
//	generator, err := openaiprovider.New(client, openaiprovider.WithTemperature(0.3))
//
// A finish reason of "length" maps to model.FinishLength. HTTP 400, 401, 403,
// 404 and 422 responses are marked permanent; everything else is retryable.
package openaiprovider
