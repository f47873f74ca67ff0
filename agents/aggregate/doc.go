/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package aggregate groups trial records by prompt and reduces each group to
// a mean score and a set of ORed flags.
//
// Judges are free to name their flags. A FlagMapper folds those names onto
// the canonical report columns, so a rubric that answers `warning` and one
// that answers `retention_warning_present` land in the same column. Flags
// that map to no canonical column are kept under their own normalized name
// and reported as discovered columns after the canonical ones.
//
// Aggregation is a pure function of its inputs: aggregating the same records
// twice gives identical output.
package aggregate
