/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"chainguard.dev/promptjudge/agents/evals"
	"chainguard.dev/promptjudge/agents/judge"
	"chainguard.dev/promptjudge/agents/usage"
)

// WriteSummary writes the end of run console summary.
func WriteSummary(w io.Writer, r *RunReport) error {
	md := r.Metadata
	stats := md.ScoreSummary

	fmt.Fprintf(w, "## Run %s\n\n", md.RunID)
	fmt.Fprintf(w, "%s judged by %s\n\n", md.TestModel, md.JudgeModel)

	average := "N/A"
	if stats.Scored > 0 {
		average = fmt.Sprintf("%.2f/%d", stats.Mean, judge.MaxScore)
	}
	if err := renderTable(w, []string{"Metric", "Value"}, [][]string{
		{"Prompts evaluated", strconv.Itoa(md.PromptsEvaluated)},
		{"Scored trials", fmt.Sprintf("%d/%d", stats.Scored, stats.Trials)},
		{"Average score", average},
		{"Errors", strconv.Itoa(md.Errors)},
		{"Execution time", md.ExecutionTime.Formatted},
	}); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n### Score distribution")
	fmt.Fprintln(w)
	dist := make([][]string, 0, len(stats.Distribution))
	for i, n := range stats.Distribution {
		dist = append(dist, []string{strconv.Itoa(i + judge.MinScore), strconv.Itoa(n)})
	}
	if err := renderTable(w, []string{"Score", "Count"}, dist); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n### Cost")
	fmt.Fprintln(w)
	cost := md.CostSummary
	if err := renderTable(w, []string{"Role", "Model", "Calls", "Tokens in", "Tokens out", "Cost"}, [][]string{
		costRow("test", cost.Test),
		costRow("judge", cost.Judge),
		costRow("total", cost.Total),
	}); err != nil {
		return err
	}
	if len(cost.UnpricedModels) > 0 {
		fmt.Fprintf(w, "\nNo price for %s; counted as $0.\n", strings.Join(cost.UnpricedModels, ", "))
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "\n### Errors")
		fmt.Fprintln(w)
		rows := make([][]string, 0, len(r.Errors))
		for _, e := range r.Errors {
			rows = append(rows, []string{e.PromptID, e.Error})
		}
		if err := renderTable(w, []string{"Prompt", "Error"}, rows); err != nil {
			return err
		}
	}
	return nil
}

func costRow(role string, c usage.RoleCost) []string {
	return []string{
		role,
		c.Model,
		strconv.FormatInt(c.Calls, 10),
		strconv.FormatInt(c.InputTokens, 10),
		strconv.FormatInt(c.OutputTokens, 10),
		fmt.Sprintf("$%.4f", c.TotalCost),
	}
}

// WriteCategories writes one row per namespace that saw at least one trial:
// trial count, failures and the average grade.
func WriteCategories(w io.Writer, obs *evals.NamespacedObserver[*evals.ResultCollector]) error {
	var rows [][]string
	obs.Walk(func(name string, collector *evals.ResultCollector) {
		iterations := collector.Total()
		if iterations == 0 {
			return
		}
		grades := collector.Grades()
		avg := "N/A"
		if len(grades) > 0 {
			avg = fmt.Sprintf("%.2f", collector.Mean())
		}
		rows = append(rows, []string{
			name,
			strconv.FormatInt(iterations, 10),
			strconv.Itoa(len(collector.Failures())),
			avg,
		})
	})
	if len(rows) == 0 {
		return nil
	}
	return renderTable(w, []string{"Category", "Trials", "Failures", "Average"}, rows)
}
