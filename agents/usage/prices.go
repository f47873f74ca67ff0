/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package usage

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Price is the USD cost per one million tokens.
type Price struct {
	InputPerMillion  float64 `yaml:"input" json:"input"`
	OutputPerMillion float64 `yaml:"output" json:"output"`
}

// Cost returns the input and output cost of the given token counts.
func (p Price) Cost(inputTokens, outputTokens int64) (float64, float64) {
	return float64(inputTokens) / 1_000_000 * p.InputPerMillion,
		float64(outputTokens) / 1_000_000 * p.OutputPerMillion
}

// PriceTable maps model names to prices.
type PriceTable map[string]Price

// DefaultPrices returns the built-in price table.
func DefaultPrices() PriceTable {
	return PriceTable{
		"gpt-4o-mini":           {InputPerMillion: 0.15, OutputPerMillion: 0.60},
		"gpt-5-mini-2025-08-07": {InputPerMillion: 0.25, OutputPerMillion: 2.00},
		"gpt-5-nano-2025-08-07": {InputPerMillion: 0.05, OutputPerMillion: 0.40},
		"qwen/qwen3-235b-a22b":  {InputPerMillion: 0.18, OutputPerMillion: 0.54},
	}
}

// Lookup returns the price for model and whether the model is known.
func (t PriceTable) Lookup(model string) (Price, bool) {
	p, ok := t[model]
	return p, ok
}

// Missing returns the sorted subset of models without a price.
func (t PriceTable) Missing(models ...string) []string {
	missing := map[string]struct{}{}
	for _, m := range models {
		if _, ok := t[m]; !ok {
			missing[m] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(missing))
}

// Merge returns a copy of t with every entry of override applied on top.
func (t PriceTable) Merge(override PriceTable) PriceTable {
	out := make(PriceTable, len(t)+len(override))
	maps.Copy(out, t)
	maps.Copy(out, override)
	return out
}

// ParsePrices decodes a YAML price table of the form:
//
//	gpt-5-nano-2025-08-07:
//	  input: 0.05
//	  output: 0.40
func ParsePrices(r io.Reader) (PriceTable, error) {
	var table PriceTable
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil {
		if errors.Is(err, io.EOF) {
			return PriceTable{}, nil
		}
		return nil, fmt.Errorf("decoding price table: %w", err)
	}
	for model, p := range table {
		if p.InputPerMillion < 0 || p.OutputPerMillion < 0 {
			return nil, fmt.Errorf("price for %q cannot be negative", model)
		}
	}
	return table, nil
}

// LoadPrices reads a YAML price table from path.
func LoadPrices(path string) (PriceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening price table: %w", err)
	}
	defer f.Close()
	return ParsePrices(f)
}
