/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package usage accounts token usage and cost per model role.
//
// Prices are USD per one million tokens and come from DefaultPrices, optionally
// merged with a YAML override. A model missing from the table is priced at zero,
// logged once, and listed in Summary.UnpricedModels; callers that want a hard
// failure check PriceTable.Missing before the run starts.
package usage
