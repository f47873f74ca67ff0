/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements promptjudge, which runs every prompt of a prompt
// set through a model under test, grades each answer with a judge model and
// writes a report.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"chainguard.dev/promptjudge/agents/config"
	"github.com/chainguard-dev/clog"
	_ "github.com/chainguard-dev/clog/gcp/init"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

// exitConfig is the exit code of a run rejected before scheduling.
const exitConfig = 2

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		clog.ErrorContextf(ctx, "%v", err)
		code := 1
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			code = exitConfig
		}
		cancel()
		os.Exit(code)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promptjudge",
		Short: "Evaluate a model against a prompt set with an LLM judge",
		Long: `promptjudge sends every prompt of <input-dir>/prompt_set.json to the model
under test, renders <input-dir>/judge_prompt.txt with the prompt and the
answer, and asks the judge model for a 1-5 score with flags.

Settings come from the environment (see the agents/config package); flags
override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx, nil)
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(ctx, cfg, cmd.OutOrStdout())
		},
	}
	addFlags(cmd)
	return cmd
}
