/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package usage

import (
	"context"
	"slices"
	"sync"

	"chainguard.dev/promptjudge/agents/metrics"
	"chainguard.dev/promptjudge/agents/model"
	"github.com/chainguard-dev/clog"
)

// Counters are cumulative token and call counts for one role.
type Counters struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	Calls        int64 `json:"calls"`
}

// RoleCost is the priced usage of one role, or of the whole run.
type RoleCost struct {
	Model        string  `json:"model,omitempty"`
	Calls        int64   `json:"calls"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	InputCost    float64 `json:"input_cost"`
	OutputCost   float64 `json:"output_cost"`
	TotalCost    float64 `json:"total_cost"`
	// Priced is false when the model has no entry in the price table
	// and its cost was counted as zero.
	Priced bool `json:"priced"`
}

// Summary is the cost breakdown of a run.
type Summary struct {
	Test  RoleCost `json:"test_model"`
	Judge RoleCost `json:"judge_model"`
	Total RoleCost `json:"total"`
	// UnpricedModels lists models that were used but priced at zero.
	UnpricedModels []string `json:"unpriced_models,omitempty"`
}

// Accountant accumulates token usage per role. It is safe for concurrent use;
// counters only ever increase.
type Accountant struct {
	prices  PriceTable
	models  map[model.Role]string
	metrics *metrics.GenAI

	mu       sync.Mutex
	counters map[model.Role]*Counters
	warned   map[string]bool
}

// Option configures an Accountant.
type Option func(*Accountant)

// WithMetrics mirrors every recorded usage onto OpenTelemetry token counters.
func WithMetrics(m *metrics.GenAI) Option {
	return func(a *Accountant) {
		a.metrics = m
	}
}

// New creates an Accountant pricing the generate role with testModel and the
// judge role with judgeModel.
func New(prices PriceTable, testModel, judgeModel string, opts ...Option) *Accountant {
	if prices == nil {
		prices = DefaultPrices()
	}
	a := &Accountant{
		prices: prices,
		models: map[model.Role]string{
			model.RoleGenerate: testModel,
			model.RoleJudge:    judgeModel,
		},
		counters: map[model.Role]*Counters{
			model.RoleGenerate: {},
			model.RoleJudge:    {},
		},
		warned: map[string]bool{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Record adds one call's usage to role. Negative counts are ignored.
func (a *Accountant) Record(ctx context.Context, role model.Role, inputTokens, outputTokens int64) {
	inputTokens = max(inputTokens, 0)
	outputTokens = max(outputTokens, 0)

	a.mu.Lock()
	c, ok := a.counters[role]
	if !ok {
		c = &Counters{}
		a.counters[role] = c
	}
	c.InputTokens += inputTokens
	c.OutputTokens += outputTokens
	c.Calls++

	name := a.models[role]
	_, priced := a.prices.Lookup(name)
	warn := !priced && !a.warned[name]
	if warn {
		a.warned[name] = true
	}
	a.mu.Unlock()

	if warn {
		clog.FromContext(ctx).With("model", name).With("role", role.String()).
			Warn("No price for model, counting its cost as zero")
	}
	if a.metrics != nil {
		a.metrics.RecordTokens(ctx, name, role.String(), inputTokens, outputTokens)
	}
}

// Counters returns a snapshot of the counters for role.
func (a *Accountant) Counters(role model.Role) Counters {
	a.mu.Lock()
	defer a.mu.Unlock()
	if c, ok := a.counters[role]; ok {
		return *c
	}
	return Counters{}
}

func (a *Accountant) cost(role model.Role, c Counters) RoleCost {
	name := a.models[role]
	price, priced := a.prices.Lookup(name)
	in, out := price.Cost(c.InputTokens, c.OutputTokens)
	return RoleCost{
		Model:        name,
		Calls:        c.Calls,
		InputTokens:  c.InputTokens,
		OutputTokens: c.OutputTokens,
		InputCost:    in,
		OutputCost:   out,
		TotalCost:    in + out,
		Priced:       priced,
	}
}

// Summary prices the current counters.
func (a *Accountant) Summary() Summary {
	test := a.cost(model.RoleGenerate, a.Counters(model.RoleGenerate))
	judge := a.cost(model.RoleJudge, a.Counters(model.RoleJudge))

	s := Summary{
		Test:  test,
		Judge: judge,
		Total: RoleCost{
			Calls:        test.Calls + judge.Calls,
			InputTokens:  test.InputTokens + judge.InputTokens,
			OutputTokens: test.OutputTokens + judge.OutputTokens,
			InputCost:    test.InputCost + judge.InputCost,
			OutputCost:   test.OutputCost + judge.OutputCost,
			TotalCost:    test.TotalCost + judge.TotalCost,
			Priced:       test.Priced && judge.Priced,
		},
	}
	for _, rc := range []RoleCost{test, judge} {
		if !rc.Priced && rc.Calls > 0 && !slices.Contains(s.UnpricedModels, rc.Model) {
			s.UnpricedModels = append(s.UnpricedModels, rc.Model)
		}
	}
	slices.Sort(s.UnpricedModels)
	return s
}
