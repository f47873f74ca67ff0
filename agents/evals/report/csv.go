/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes one row per prompt: id, prompt text, mean score and one
// TRUE/FALSE cell per flag column. A run with a known duration starts with an
// "Execution Time:" row and a blank row.
func WriteCSV(w io.Writer, r *RunReport) error {
	headers := append([]string{"prompt_id", "prompt", "score"}, r.columns...)

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}

	if formatted := r.Metadata.ExecutionTime.Formatted; formatted != "" {
		row := make([]string, len(headers))
		row[0] = "Execution Time: " + formatted
		if err := cw.Write(row); err != nil {
			return err
		}
		if err := cw.Write(make([]string, len(headers))); err != nil {
			return err
		}
	}

	for _, g := range r.Results {
		score := "N/A"
		if g.MeanScore != nil {
			score = fmt.Sprintf("%.2f", *g.MeanScore)
		}
		row := make([]string, 0, len(headers))
		row = append(row, g.PromptID, g.TestPrompt, score)
		for _, column := range r.columns {
			row = append(row, boolCell(g.Flags[column]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func boolCell(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
