/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"chainguard.dev/promptjudge/agents/config"
	"github.com/spf13/cobra"
)

func addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("input-dir", "", "Directory or gs:// prefix holding prompt_set.json and judge_prompt.txt")
	f.String("output-dir", "", "Directory for the JSON report and CSV summary")
	f.String("output-prefix", "", "File name prefix of the outputs")
	f.String("report-bucket", "", "Upload outputs to gs://bucket/prefix instead of the output directory")
	f.Int("start", 0, "Index of the first prompt to evaluate")
	f.Int("limit", 0, "Number of prompts to evaluate, 0 for all")

	f.String("test-model", "", "Model under test")
	f.String("test-provider", "", "Provider of the model under test: openrouter, openai, anthropic or google")
	f.String("judge-model", "", "Judge model")
	f.String("judge-provider", "", "Provider of the judge model")
	f.Bool("judge-json-schema", false, "Ask the judge for output matching the evaluation JSON schema")

	f.Int("concurrency", 0, "Maximum number of prompts in flight")
	f.Duration("delay", 0, "Delay before each prompt's first call")
	f.Int("batch-size", 0, "Pause after every N completed prompts, 0 to disable")
	f.Duration("batch-pause", 0, "Length of the batch pause")
	f.Float64("rps", 0, "Maximum remote calls per second per role, 0 for unlimited")
	f.Int("max-retries", 0, "Attempts per remote call")

	f.String("prices", "", "YAML price table merged over the built-in prices")
	f.Bool("strict-pricing", false, "Refuse to run models without a price")
	f.Int("metrics-port", 0, "Serve Prometheus metrics on this port, 0 to disable")
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()

	strs := map[string]*string{
		"input-dir":      &cfg.InputDir,
		"output-dir":     &cfg.OutputDir,
		"output-prefix":  &cfg.OutputPrefix,
		"report-bucket":  &cfg.ReportBucket,
		"test-model":     &cfg.TestModel,
		"test-provider":  &cfg.TestProvider,
		"judge-model":    &cfg.JudgeModel,
		"judge-provider": &cfg.JudgeProvider,
		"prices":         &cfg.PricesFile,
	}
	for name, dst := range strs {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	ints := map[string]*int{
		"start":        &cfg.Start,
		"limit":        &cfg.Limit,
		"concurrency":  &cfg.Concurrency,
		"batch-size":   &cfg.BatchSize,
		"max-retries":  &cfg.MaxAttempts,
		"metrics-port": &cfg.MetricsPort,
	}
	for name, dst := range ints {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if f.Changed("delay") {
		v, err := f.GetDuration("delay")
		if err != nil {
			return err
		}
		cfg.InterRequestDelay = v
	}
	if f.Changed("batch-pause") {
		v, err := f.GetDuration("batch-pause")
		if err != nil {
			return err
		}
		cfg.BatchPause = v
	}
	if f.Changed("rps") {
		v, err := f.GetFloat64("rps")
		if err != nil {
			return err
		}
		cfg.RequestsPerSecond = v
	}
	if f.Changed("judge-json-schema") {
		v, err := f.GetBool("judge-json-schema")
		if err != nil {
			return err
		}
		cfg.JudgeJSONSchema = v
	}
	if f.Changed("strict-pricing") {
		v, err := f.GetBool("strict-pricing")
		if err != nil {
			return err
		}
		cfg.StrictPricing = v
	}
	return nil
}
