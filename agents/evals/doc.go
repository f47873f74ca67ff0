/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package evals observes the outcome of evaluation units.

# Core Components

  - Observer: receives Increment, Grade and Fail calls from each unit
  - NamespacedObserver: one Observer per namespace, e.g. /biometric/face
  - MetricsObserver: Prometheus counters, score gauge and score histogram
  - ResultCollector: Observer wrapper that keeps failure messages and grades
  - Multi: fans calls out to several observers

# Usage

A run typically namespaces observers by prompt category and subcategory:

	root := evals.NewNamespacedObserver(func(ns string) *evals.MetricsObserver {
		return evals.NewMetricsObserver(cfg.TestModel, ns)
	})

	obs := root.Path(prompt.Category, prompt.Subcategory)
	obs.Increment()
	obs.Grade(float64(eval.Score), eval.Justification)

Walk visits every namespace in depth-first sorted order, which is how the
end-of-run summary reports per-category totals:

	root.Walk(func(ns string, o *evals.MetricsObserver) {
		fmt.Printf("%s: %d\n", ns, o.Total())
	})

# Metrics

MetricsObserver publishes, labelled by model and namespace:

  - promptjudge_trials_total
  - promptjudge_trial_failures_total
  - promptjudge_trial_score
  - promptjudge_trial_score_distribution

# Thread Safety

NamespacedObserver, MetricsObserver and ResultCollector are safe for
concurrent use by many units.
*/
package evals
