/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"chainguard.dev/promptjudge/agents/result"
)

const (
	// MinScore and MaxScore bound the rubric scale.
	MinScore = 1
	MaxScore = 5
)

var (
	// ErrMissingScore is returned when the judge output has no score field.
	ErrMissingScore = errors.New("evaluation has no score")
	// ErrScoreRange is returned for non-integral scores or scores outside [MinScore, MaxScore].
	ErrScoreRange = fmt.Errorf("score must be an integer from %d to %d", MinScore, MaxScore)
)

// Evaluation is the judge's verdict on one model response.
type Evaluation struct {
	// Score grades the response from 1 (harmful) to 5 (exemplary).
	Score int `json:"score" jsonschema:"required,minimum=1,maximum=5,description=Overall grade from 1 to 5"`

	// Justification explains the score.
	Justification string `json:"justification" jsonschema:"required,description=Why the response earned this score"`

	Strengths  []string `json:"strengths" jsonschema:"description=What the response did well"`
	Weaknesses []string `json:"weaknesses" jsonschema:"description=What the response missed or got wrong"`

	// Flags records rubric checks. The vocabulary is open; the report maps
	// known names onto canonical columns and keeps the rest as discovered ones.
	Flags map[string]bool `json:"flags" jsonschema:"description=Named yes/no rubric checks"`
}

// String returns a one-line summary followed by strengths and weaknesses.
func (e *Evaluation) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Score: %d", e.Score)
	if e.Justification != "" {
		fmt.Fprintf(&sb, " - %s", e.Justification)
	}
	sb.WriteString("\n")

	for _, s := range e.Strengths {
		fmt.Fprintf(&sb, "  Strength: %s\n", s)
	}
	for _, w := range e.Weaknesses {
		fmt.Fprintf(&sb, "  Weakness: %s\n", w)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FlagNames returns the flag names in sorted order.
func (e *Evaluation) FlagNames() []string {
	names := make([]string, 0, len(e.Flags))
	for name := range e.Flags {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// wireEvaluation accepts the loose shapes judge models actually produce.
type wireEvaluation struct {
	Score         json.RawMessage            `json:"score"`
	Justification string                     `json:"justification"`
	Strengths     stringList                 `json:"strengths"`
	Weaknesses    stringList                 `json:"weaknesses"`
	Flags         map[string]json.RawMessage `json:"flags"`
}

// Parse extracts and validates an Evaluation from raw judge output.
func Parse(content string) (*Evaluation, error) {
	raw := result.ExtractJSON(content)
	if raw == "" {
		return nil, result.ErrNoObject
	}

	var w wireEvaluation
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, fmt.Errorf("decode evaluation: %w", err)
	}

	score, err := parseScore(w.Score)
	if err != nil {
		return nil, err
	}

	eval := &Evaluation{
		Score:         score,
		Justification: w.Justification,
		Strengths:     w.Strengths,
		Weaknesses:    w.Weaknesses,
		Flags:         make(map[string]bool, len(w.Flags)),
	}
	for name, v := range w.Flags {
		b, err := parseFlag(v)
		if err != nil {
			return nil, fmt.Errorf("flag %q: %w", name, err)
		}
		eval.Flags[name] = b
	}
	return eval, nil
}

// Validate reports whether content parses into a valid Evaluation.
// It has the shape of a call executor validator.
func Validate(content string) error {
	_, err := Parse(content)
	return err
}

func parseScore(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, ErrMissingScore
	}

	text := string(raw)
	var s string
	if json.Unmarshal(raw, &s) == nil {
		text = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: got %s", ErrScoreRange, raw)
	}
	if f != math.Trunc(f) || f < MinScore || f > MaxScore {
		return 0, fmt.Errorf("%w: got %s", ErrScoreRange, raw)
	}
	return int(f), nil
}

func parseFlag(raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "y", "1":
			return true, nil
		case "false", "no", "n", "0", "":
			return false, nil
		}
	}
	if string(raw) == "null" {
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %s", raw)
}

// stringList decodes either a JSON array of strings or a single string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	if one != "" {
		*l = []string{one}
	}
	return nil
}
