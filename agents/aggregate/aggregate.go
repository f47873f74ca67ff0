/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package aggregate

import (
	"cmp"
	"slices"

	"chainguard.dev/promptjudge/agents/promptset"
	"chainguard.dev/promptjudge/agents/trial"
)

// Group is every trial of one prompt.
type Group struct {
	PromptID    string          `json:"prompt_id"`
	Category    string          `json:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty"`
	TestPrompt  string          `json:"test_prompt"`
	Trials      []*trial.Record `json:"trials"`

	// MeanScore is the mean over trials with a score; nil when no trial
	// produced one.
	MeanScore *float64 `json:"mean_score"`

	// Flags are the trials' flags mapped onto report columns and ORed.
	Flags map[string]bool `json:"flags,omitempty"`
}

// ErrorEntry summarizes one failed trial.
type ErrorEntry struct {
	PromptID  string `json:"prompt_id"`
	TestModel string `json:"test_model"`
	Error     string `json:"error"`
}

// Result is the grouped outcome of a run.
type Result struct {
	Groups  []Group      `json:"results"`
	Errors  []ErrorEntry `json:"errors"`
	Columns []string     `json:"-"`
}

// Stats summarizes the scored trials of a Result.
type Stats struct {
	Trials int     `json:"trials"`
	Scored int     `json:"scored"`
	Mean   float64 `json:"mean"`
	// Distribution counts trials per score; index 0 is a score of 1.
	Distribution [5]int `json:"distribution"`
}

// Aggregate groups records by prompt id. Every prompt gets a group, even one
// with no records; records for unknown prompts get a group of their own.
// Groups are in natural prompt id order. Within a group, and among the errors
// of one prompt, records are ordered by Index and then by input order, so the
// completion order of a concurrent run does not show. A nil mapper uses
// DefaultFlagMapper.
func Aggregate(prompts []promptset.Prompt, records []*trial.Record, mapper *FlagMapper) *Result {
	if mapper == nil {
		mapper = DefaultFlagMapper()
	}

	byID := make(map[string]*Group, len(prompts))
	for _, p := range prompts {
		if _, ok := byID[p.ID]; ok {
			continue
		}
		byID[p.ID] = &Group{
			PromptID:    p.ID,
			Category:    p.Category,
			Subcategory: p.Subcategory,
			TestPrompt:  p.Text,
			Trials:      []*trial.Record{},
		}
	}

	ordered := make([]*trial.Record, 0, len(records))
	for _, rec := range records {
		if rec != nil {
			ordered = append(ordered, rec)
		}
	}
	slices.SortStableFunc(ordered, func(a, b *trial.Record) int {
		return cmp.Compare(a.Index, b.Index)
	})

	res := &Result{Errors: []ErrorEntry{}}
	for _, rec := range ordered {
		g, ok := byID[rec.PromptID]
		if !ok {
			g = &Group{PromptID: rec.PromptID, TestPrompt: rec.TestPrompt, Trials: []*trial.Record{}}
			byID[rec.PromptID] = g
		}
		g.Trials = append(g.Trials, rec)
		if rec.Error != "" {
			res.Errors = append(res.Errors, ErrorEntry{
				PromptID:  rec.PromptID,
				TestModel: rec.TestModel,
				Error:     rec.Error,
			})
		}
	}

	res.Groups = make([]Group, 0, len(byID))
	for _, g := range byID {
		reduce(g, mapper)
		res.Groups = append(res.Groups, *g)
	}
	slices.SortFunc(res.Groups, func(a, b Group) int {
		return CompareNatural(a.PromptID, b.PromptID)
	})
	slices.SortStableFunc(res.Errors, func(a, b ErrorEntry) int {
		return CompareNatural(a.PromptID, b.PromptID)
	})
	res.Columns = mapper.Columns(res.Groups)
	return res
}

func reduce(g *Group, mapper *FlagMapper) {
	var sum float64
	var n int
	for _, rec := range g.Trials {
		if score, ok := rec.Score(); ok {
			sum += float64(score)
			n++
		}
		if rec.Evaluation == nil {
			continue
		}
		for column, v := range mapper.Map(rec.Evaluation.Flags) {
			if g.Flags == nil {
				g.Flags = make(map[string]bool)
			}
			g.Flags[column] = g.Flags[column] || v
		}
	}
	if n > 0 {
		mean := sum / float64(n)
		g.MeanScore = &mean
	}
}

// Stats computes score statistics over every trial.
func (r *Result) Stats() Stats {
	var s Stats
	var sum int
	for _, g := range r.Groups {
		for _, rec := range g.Trials {
			s.Trials++
			score, ok := rec.Score()
			if !ok {
				continue
			}
			s.Scored++
			sum += score
			if score >= 1 && score <= len(s.Distribution) {
				s.Distribution[score-1]++
			}
		}
	}
	if s.Scored > 0 {
		s.Mean = float64(sum) / float64(s.Scored)
	}
	return s
}
