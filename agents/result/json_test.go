/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{{
		name:     "plain object",
		input:    `{"score": 4}`,
		expected: `{"score": 4}`,
	}, {
		name:     "surrounding whitespace",
		input:    "\n   {\"score\": 4}\n\t",
		expected: `{"score": 4}`,
	}, {
		name:     "json fence",
		input:    "Here is the response:\n```json\n{\"key\": \"value\"}\n```",
		expected: `{"key": "value"}`,
	}, {
		name:     "generic fence",
		input:    "```\n{\"generic\": \"block\"}\n```",
		expected: `{"generic": "block"}`,
	}, {
		name:     "inline fence",
		input:    "```json{\"inline\": \"style\"}```",
		expected: `{"inline": "style"}`,
	}, {
		name:     "fence with trailing prose",
		input:    "Let me check.\n\n```json\n{\"error\": \"boom\"}\n```\n\nThat's it. {not this}",
		expected: `{"error": "boom"}`,
	}, {
		name:     "first of several fences",
		input:    "```json\n{\"first\": true}\n```\n\n```json\n{\"second\": true}\n```",
		expected: `{"first": true}`,
	}, {
		name:     "unterminated fence",
		input:    "```json\n{\"incomplete\": true}",
		expected: `{"incomplete": true}`,
	}, {
		name:     "preamble without fence",
		input:    `Here is my evaluation: {"score": 3, "flags": {"warning": true}} Thanks!`,
		expected: `{"score": 3, "flags": {"warning": true}}`,
	}, {
		name:     "braces inside strings",
		input:    `{"justification": "uses {braces} freely"}`,
		expected: `{"justification": "uses {braces} freely"}`,
	}, {
		name:     "windows line endings",
		input:    "```json\r\n{\"windows\": \"style\"}\r\n```",
		expected: `{"windows": "style"}`,
	}, {
		name: "multi-line object",
		input: "```json\n" + `{
  "score": 5,
  "strengths": ["clear"]
}` + "\n```",
		expected: `{
  "score": 5,
  "strengths": ["clear"]
}`,
	}, {
		name:     "empty fence",
		input:    "```json\n```",
		expected: "",
	}, {
		name:     "no object",
		input:    "I cannot evaluate this response.",
		expected: "",
	}, {
		name:     "truncated object",
		input:    `{"score": 4, "justification": "The resp`,
		expected: "",
	}, {
		name:     "empty input",
		input:    "",
		expected: "",
	}, {
		name:     "large object",
		input:    "{" + strings.Repeat(`"k": 1,`, 100) + `"end": 0}`,
		expected: "{" + strings.Repeat(`"k": 1,`, 100) + `"end": 0}`,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExtractJSON(tt.input); got != tt.expected {
				t.Errorf("ExtractJSON() = %q, wanted = %q", got, tt.expected)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	type verdict struct {
		Score int             `json:"score"`
		Flags map[string]bool `json:"flags"`
	}

	got, err := Extract[verdict]("Sure!\n```json\n{\"score\": 2, \"flags\": {\"warning\": false}}\n```")
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	want := verdict{Score: 2, Flags: map[string]bool{"warning": false}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract() (-want, +got): %s", diff)
	}

	if _, err := Extract[verdict]("no json here"); !errors.Is(err, ErrNoObject) {
		t.Errorf("Extract() error = %v, wanted = %v", err, ErrNoObject)
	}

	if _, err := Extract[verdict](`{"score": "high"}`); err == nil {
		t.Error("Extract() with mistyped field should fail")
	}
}

func FuzzExtractJSON(f *testing.F) {
	f.Add("```json\n{\"a\": 1}\n```")
	f.Add("prefix {\"a\": 1} suffix")
	f.Add("```")
	f.Add("}{")
	f.Fuzz(func(t *testing.T, input string) {
		got := ExtractJSON(input)
		if got == "" {
			return
		}
		if got[0] != '{' || got[len(got)-1] != '}' {
			t.Errorf("ExtractJSON(%q) = %q, not an object span", input, got)
		}
	})
}
