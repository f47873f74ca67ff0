/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package report renders and persists the outcome of an evaluation run.

# Overview

A RunReport bundles the run metadata (identity, models, timing, cost) with
the aggregated per-prompt results. It is written in three forms:

  - WriteJSON: the full report, trials included
  - WriteCSV: one row per prompt with its mean score and flag columns
  - WriteSummary: a console summary with the average score, the score
    distribution, cost per role and the error count

WriteCategories renders a per-namespace table from a NamespacedObserver tree
of ResultCollectors, which is how the command line reports categories.

# Usage

	rep := report.New(report.Run{
		ID:         runID,
		TestModel:  cfg.TestModel,
		JudgeModel: cfg.JudgeModel,
		Start:      start,
		End:        time.Now(),
		Cost:       acct.Summary(),
	}, result)

	sink := report.NewFileSink(cfg.OutputDir)
	locations, err := report.Publish(ctx, sink, cfg.OutputPrefix, rep)

# Sinks

FileSink writes into a local directory and GCSSink uploads into a bucket
under a prefix. GCS uploads are retried with exponential backoff.
*/
package report
