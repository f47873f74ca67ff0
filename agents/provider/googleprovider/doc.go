/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googleprovider adapts Gemini generate content, through the Gemini
// API or Vertex AI, to model.Client.
package googleprovider
