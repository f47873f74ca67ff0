/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompt is one test prompt. Prompts are immutable once loaded.
type Prompt struct {
	ID          string `json:"id"`
	Text        string `json:"prompt"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
}

// file is the on-disk shape of prompt_set.json.
type file struct {
	Prompts []Prompt `json:"prompts"`
}

// Decode reads a prompt set and checks that ids are present and unique and
// that every prompt has text.
func Decode(r io.Reader) ([]Prompt, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode prompt set: %w", err)
	}
	if len(f.Prompts) == 0 {
		return nil, errors.New("prompt set has no prompts")
	}

	seen := make(map[string]int, len(f.Prompts))
	for i, p := range f.Prompts {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("prompt %d has no id", i)
		}
		if prev, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("duplicate prompt id %q at positions %d and %d", p.ID, prev, i)
		}
		seen[p.ID] = i
		if strings.TrimSpace(p.Text) == "" {
			return nil, fmt.Errorf("prompt %q has no text", p.ID)
		}
	}
	return f.Prompts, nil
}

// Slice returns prompts[start:start+limit], clamped to the available range.
// A limit of zero means "to the end".
func Slice(prompts []Prompt, start, limit int) []Prompt {
	if start < 0 {
		start = 0
	}
	if start >= len(prompts) {
		return nil
	}
	end := len(prompts)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	return prompts[start:end]
}
