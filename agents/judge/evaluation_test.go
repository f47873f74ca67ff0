/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"errors"
	"testing"

	"chainguard.dev/promptjudge/agents/result"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    *Evaluation
		wantErr error
	}{{
		name: "well formed",
		content: `{"score": 4, "justification": "Good warning.", "strengths": ["clear"],
			"weaknesses": ["no timeline"], "flags": {"retention_warning_present": true, "specific_timeline_provided": false}}`,
		want: &Evaluation{
			Score:         4,
			Justification: "Good warning.",
			Strengths:     []string{"clear"},
			Weaknesses:    []string{"no timeline"},
			Flags:         map[string]bool{"retention_warning_present": true, "specific_timeline_provided": false},
		},
	}, {
		name:    "fenced with preamble",
		content: "Here is my evaluation:\n```json\n{\"score\": 2, \"justification\": \"Vague.\"}\n```",
		want:    &Evaluation{Score: 2, Justification: "Vague.", Flags: map[string]bool{}},
	}, {
		name:    "score as string",
		content: `{"score": "5"}`,
		want:    &Evaluation{Score: 5, Flags: map[string]bool{}},
	}, {
		name:    "score as integral float",
		content: `{"score": 3.0}`,
		want:    &Evaluation{Score: 3, Flags: map[string]bool{}},
	}, {
		name:    "single string lists",
		content: `{"score": 1, "strengths": "none", "weaknesses": ""}`,
		want:    &Evaluation{Score: 1, Strengths: []string{"none"}, Flags: map[string]bool{}},
	}, {
		name:    "lenient flags",
		content: `{"score": 3, "flags": {"warning": "yes", "alternatives": 0, "transparency": "FALSE", "regulatory_cite": null}}`,
		want: &Evaluation{
			Score: 3,
			Flags: map[string]bool{"warning": true, "alternatives": false, "transparency": false, "regulatory_cite": false},
		},
	}, {
		name:    "missing score",
		content: `{"justification": "forgot"}`,
		wantErr: ErrMissingScore,
	}, {
		name:    "null score",
		content: `{"score": null}`,
		wantErr: ErrMissingScore,
	}, {
		name:    "score too high",
		content: `{"score": 6}`,
		wantErr: ErrScoreRange,
	}, {
		name:    "score zero",
		content: `{"score": 0}`,
		wantErr: ErrScoreRange,
	}, {
		name:    "fractional score",
		content: `{"score": 3.5}`,
		wantErr: ErrScoreRange,
	}, {
		name:    "non-numeric score",
		content: `{"score": "excellent"}`,
		wantErr: ErrScoreRange,
	}, {
		name:    "no object",
		content: "I'm sorry, I can't help with that.",
		wantErr: result.ErrNoObject,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.content)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, wanted = %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() (-want, +got): %s", diff)
			}
		})
	}
}

func TestParseRejectsBadFlag(t *testing.T) {
	t.Parallel()

	if _, err := Parse(`{"score": 3, "flags": {"warning": "maybe"}}`); err == nil {
		t.Error("Parse() with an unreadable flag should fail")
	}
	if _, err := Parse(`{"score": 3, "flags": {"warning": [true]}}`); err == nil {
		t.Error("Parse() with a list flag should fail")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := Validate(`{"score": 4}`); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if err := Validate(`{"score": 4, "justification": "cut off mid`); err == nil {
		t.Error("Validate() on truncated output should fail")
	}
}

func TestEvaluationString(t *testing.T) {
	t.Parallel()

	e := &Evaluation{
		Score:         4,
		Justification: "Solid",
		Strengths:     []string{"clear"},
		Weaknesses:    []string{"brief"},
	}
	want := "Score: 4 - Solid\n  Strength: clear\n  Weakness: brief"
	if got := e.String(); got != want {
		t.Errorf("String() = %q, wanted = %q", got, want)
	}

	bare := &Evaluation{Score: 1}
	if got := bare.String(); got != "Score: 1" {
		t.Errorf("String() = %q, wanted = %q", got, "Score: 1")
	}
}

func TestFlagNames(t *testing.T) {
	t.Parallel()

	e := &Evaluation{Flags: map[string]bool{"b": true, "a": false, "c": true}}
	if diff := cmp.Diff([]string{"a", "b", "c"}, e.FlagNames()); diff != "" {
		t.Errorf("FlagNames() (-want, +got): %s", diff)
	}
}

func TestSchema(t *testing.T) {
	t.Parallel()

	s, err := Schema()
	if err != nil {
		t.Fatalf("Schema() = %v", err)
	}
	if got := s["type"]; got != "object" {
		t.Errorf("type = %v, wanted = object", got)
	}
	if diff := cmp.Diff([]any{"score", "justification"}, s["required"]); diff != "" {
		t.Errorf("required (-want, +got): %s", diff)
	}
	props, ok := s["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties = %T, wanted map", s["properties"])
	}
	for _, name := range []string{"score", "justification", "strengths", "weaknesses", "flags"} {
		if _, ok := props[name]; !ok {
			t.Errorf("schema missing property %q", name)
		}
	}
}
