/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Global metrics with consistent dimensions
	trialCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptjudge_trials_total",
			Help: "Total number of evaluation units that terminated",
		},
		[]string{"model", "namespace"},
	)

	failureCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptjudge_trial_failures_total",
			Help: "Total number of evaluation units that ended in an error record",
		},
		[]string{"model", "namespace"},
	)

	scoreGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "promptjudge_trial_score",
			Help: "Most recent judge score (1-5)",
		},
		[]string{"model", "namespace"},
	)

	scoreHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promptjudge_trial_score_distribution",
			Help:    "Distribution of judge scores (1-5)",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
		[]string{"model", "namespace"},
	)
)

// MetricsObserver implements Observer interface with Prometheus metrics
type MetricsObserver struct {
	model     string
	namespace string
	total     atomic.Int64

	// Prometheus metrics with labels
	trialCounter prometheus.Counter
	failCounter  prometheus.Counter
	scoreGauge   prometheus.Gauge
	scoreHist    prometheus.Observer
}

// NewMetricsObserver creates a metrics observer for the tested model and namespace
func NewMetricsObserver(model, namespace string) *MetricsObserver {
	labels := prometheus.Labels{
		"model":     model,
		"namespace": namespace,
	}
	return &MetricsObserver{
		model:        model,
		namespace:    namespace,
		trialCounter: trialCounter.With(labels),
		failCounter:  failureCounter.With(labels),
		scoreGauge:   scoreGauge.With(labels),
		scoreHist:    scoreHistogram.With(labels),
	}
}

// Increment implements Observer.Increment
func (m *MetricsObserver) Increment() {
	m.total.Add(1)
	m.trialCounter.Inc()
}

// Fail implements Observer.Fail
func (m *MetricsObserver) Fail(msg string) {
	m.failCounter.Inc()
}

// Grade implements Observer.Grade
func (m *MetricsObserver) Grade(score float64, reasoning string) {
	m.scoreGauge.Set(score)
	m.scoreHist.Observe(score)
}

// Log implements Observer.Log (no-op for metrics observer)
func (m *MetricsObserver) Log(msg string) {
	// No-op: metrics observer doesn't log
}

// Total implements Observer.Total
func (m *MetricsObserver) Total() int64 {
	return m.total.Load()
}
