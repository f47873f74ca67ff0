/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"chainguard.dev/promptjudge/agents/agenttrace"
	"chainguard.dev/promptjudge/agents/config"
	"chainguard.dev/promptjudge/agents/evals"
	"chainguard.dev/promptjudge/agents/evals/report"
	"chainguard.dev/promptjudge/agents/executor/callexecutor"
	"chainguard.dev/promptjudge/agents/metrics"
	"chainguard.dev/promptjudge/agents/pacing"
	"chainguard.dev/promptjudge/agents/promptset"
	"chainguard.dev/promptjudge/agents/provider"
	"chainguard.dev/promptjudge/agents/scheduler"
	"chainguard.dev/promptjudge/agents/trial"
	"chainguard.dev/promptjudge/agents/usage"
	"cloud.google.com/go/storage"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

const (
	meterName = "chainguard.dev/promptjudge"
	gcsScheme = "gs://"
)

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	runID := uuid.NewString()
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("run_id", runID))
	ctx = agenttrace.WithExecutionContext(ctx, agenttrace.ExecutionContext{
		RunID:      runID,
		TestModel:  cfg.TestModel,
		JudgeModel: cfg.JudgeModel,
	})
	log := clog.FromContext(ctx)

	prices, err := loadPrices(cfg)
	if err != nil {
		return err
	}

	gcs, err := newStorageClient(ctx, cfg)
	if err != nil {
		return err
	}
	if gcs != nil {
		defer gcs.Close()
	}

	inputs, err := promptset.NewLoader(gcs).Load(ctx, cfg.InputDir)
	if err != nil {
		return err
	}
	prompts := promptset.Slice(inputs.Prompts, cfg.Start, cfg.Limit)
	if len(prompts) == 0 {
		return config.Errorf("START", "no prompts left after skipping %d of %d", cfg.Start, len(inputs.Prompts))
	}

	sink, err := newSink(cfg, gcs)
	if err != nil {
		return err
	}

	if cfg.MetricsPort > 0 {
		stop, err := serveMetrics(ctx, cfg.MetricsPort)
		if err != nil {
			return err
		}
		defer stop()
	}
	genai := metrics.NewGenAI(meterName)
	genai.SetAttributeEnricher(agenttrace.Enricher())

	acct := usage.New(prices, cfg.TestModel, cfg.JudgeModel, usage.WithMetrics(genai))

	generate, err := newExecutor(ctx, cfg, cfg.GenerateSettings(), acct, genai)
	if err != nil {
		return err
	}
	judgeSettings, err := cfg.JudgeSettings()
	if err != nil {
		return err
	}
	judge, err := newExecutor(ctx, cfg, judgeSettings, acct, genai)
	if err != nil {
		return err
	}

	obs := evals.NewNamespacedObserver(func(name string) *evals.ResultCollector {
		return evals.NewResultCollector(evals.NewMetricsObserver(cfg.TestModel, name))
	})
	runner, err := trial.NewRunner(generate, judge, inputs.Rubric, trial.Config{
		TestModel:                cfg.TestModel,
		JudgeModel:               cfg.JudgeModel,
		GenerateMaxTokens:        cfg.GenerateMaxTokens,
		GenerateMaxTokensCeiling: cfg.GenerateMaxTokensCeiling,
		JudgeMaxTokens:           cfg.JudgeMaxTokens,
		JudgeMaxTokensCeiling:    cfg.JudgeMaxTokensCeiling,
		InterRequestDelay:        cfg.InterRequestDelay,
	},
		trial.WithPacer(pacing.New(cfg.BatchSize, cfg.BatchPause)),
		trial.WithObserver(func(p promptset.Prompt) evals.Observer {
			return obs.Path(p.Category, p.Subcategory)
		}),
	)
	if err != nil {
		return err
	}
	sched, err := scheduler.New(runner, cfg.Concurrency)
	if err != nil {
		return err
	}

	log.With("test_model", cfg.TestModel).
		With("judge_model", cfg.JudgeModel).
		With("prompts", len(prompts)).
		With("first", cfg.Start).
		Info("Starting evaluation")

	start := time.Now()
	res := sched.RunBatch(ctx, prompts)
	end := time.Now()

	rep := report.New(report.Run{
		ID:         runID,
		TestModel:  cfg.TestModel,
		JudgeModel: cfg.JudgeModel,
		Start:      start,
		End:        end,
		Cost:       acct.Summary(),
	}, res)

	// An interrupted run still persists what it has.
	if _, err := report.Publish(context.WithoutCancel(ctx), sink, cfg.OutputPrefix, rep); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}

	if err := report.WriteSummary(out, rep); err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := report.WriteCategories(out, obs); err != nil {
		return err
	}
	return context.Cause(ctx)
}

func loadPrices(cfg *config.Config) (usage.PriceTable, error) {
	prices := usage.DefaultPrices()
	if cfg.PricesFile != "" {
		override, err := usage.LoadPrices(cfg.PricesFile)
		if err != nil {
			return nil, &config.ConfigurationError{Field: "PRICES_FILE", Err: err}
		}
		prices = prices.Merge(override)
	}
	if cfg.StrictPricing {
		if missing := prices.Missing(cfg.TestModel, cfg.JudgeModel); len(missing) > 0 {
			return nil, config.Errorf("STRICT_PRICING", "no price for %s", strings.Join(missing, ", "))
		}
	}
	return prices, nil
}

// newStorageClient returns a GCS client when any input or output lives in a
// bucket, and nil otherwise.
func newStorageClient(ctx context.Context, cfg *config.Config) (*storage.Client, error) {
	if !strings.HasPrefix(cfg.InputDir, gcsScheme) && cfg.ReportBucket == "" {
		return nil, nil
	}
	client, err := storage.NewClient(ctx, option.WithUserAgent("promptjudge"))
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return client, nil
}

func newSink(cfg *config.Config, gcs *storage.Client) (report.Sink, error) {
	if cfg.ReportBucket == "" {
		return report.NewFileSink(cfg.OutputDir), nil
	}
	uri := cfg.ReportBucket
	if !strings.HasPrefix(uri, gcsScheme) {
		uri = gcsScheme + uri
	}
	bucket, prefix, err := promptset.SplitGCS(uri)
	if err != nil {
		return nil, &config.ConfigurationError{Field: "REPORT_BUCKET", Err: err}
	}
	return report.NewGCSSink(gcs, bucket, prefix), nil
}

func newExecutor(ctx context.Context, cfg *config.Config, s provider.Settings, acct *usage.Accountant, m *metrics.GenAI) (*callexecutor.Executor, error) {
	client, err := provider.New(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("creating %s client for %s: %w", s.Resolve(), s.Model, err)
	}
	opts := []callexecutor.Option{
		callexecutor.WithMaxAttempts(cfg.MaxAttempts),
		callexecutor.WithUsageRecorder(acct),
		callexecutor.WithMetrics(m),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := max(1, int(math.Ceil(cfg.RequestsPerSecond)))
		opts = append(opts, callexecutor.WithRateLimit(rate.Limit(cfg.RequestsPerSecond), burst))
	}
	return callexecutor.New(client, opts...)
}

// serveMetrics exports the OpenTelemetry meters through the Prometheus
// registry and serves it on port. The returned func shuts both down.
func serveMetrics(ctx context.Context, port int) (func(), error) {
	exporter, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(mp)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			clog.FromContext(ctx).With("error", err.Error()).Error("Metrics server failed")
		}
	}()
	clog.FromContext(ctx).With("port", port).Info("Serving metrics")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = mp.Shutdown(shutdownCtx)
	}, nil
}
