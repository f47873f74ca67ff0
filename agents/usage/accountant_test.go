/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package usage

import (
	"context"
	"sync"
	"testing"

	"chainguard.dev/promptjudge/agents/metrics"
	"chainguard.dev/promptjudge/agents/model"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestAccountantSummary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := New(DefaultPrices(), "qwen/qwen3-235b-a22b", "gpt-5-nano-2025-08-07",
		WithMetrics(metrics.NewGenAI("promptjudge.test")))

	a.Record(ctx, model.RoleGenerate, 1_000_000, 500_000)
	a.Record(ctx, model.RoleJudge, 2_000_000, 1_000_000)
	a.Record(ctx, model.RoleJudge, 0, 0)

	want := Summary{
		Test: RoleCost{
			Model:        "qwen/qwen3-235b-a22b",
			Calls:        1,
			InputTokens:  1_000_000,
			OutputTokens: 500_000,
			InputCost:    0.18,
			OutputCost:   0.27,
			TotalCost:    0.45,
			Priced:       true,
		},
		Judge: RoleCost{
			Model:        "gpt-5-nano-2025-08-07",
			Calls:        2,
			InputTokens:  2_000_000,
			OutputTokens: 1_000_000,
			InputCost:    0.10,
			OutputCost:   0.40,
			TotalCost:    0.50,
			Priced:       true,
		},
		Total: RoleCost{
			Calls:        3,
			InputTokens:  3_000_000,
			OutputTokens: 1_500_000,
			InputCost:    0.28,
			OutputCost:   0.67,
			TotalCost:    0.95,
			Priced:       true,
		},
	}

	if diff := cmp.Diff(want, a.Summary(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Summary() mismatch (-want +got):\n%s", diff)
	}
}

func TestAccountantUnknownModel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := New(DefaultPrices(), "mystery-model", "gpt-5-nano-2025-08-07")
	a.Record(ctx, model.RoleGenerate, 1000, 1000)
	a.Record(ctx, model.RoleGenerate, 1000, 1000)

	s := a.Summary()
	if s.Test.TotalCost != 0 {
		t.Errorf("unknown model cost = %v, wanted = 0", s.Test.TotalCost)
	}
	if s.Test.Priced {
		t.Error("unknown model should not be marked priced")
	}
	if diff := cmp.Diff([]string{"mystery-model"}, s.UnpricedModels); diff != "" {
		t.Errorf("UnpricedModels mismatch (-want +got):\n%s", diff)
	}
	if s.Test.InputTokens != 2000 {
		t.Errorf("tokens still counted = %d, wanted = %d", s.Test.InputTokens, 2000)
	}
	if s.Total.Priced {
		t.Error("total should not be priced when a role is unpriced")
	}
}

func TestAccountantConcurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := New(nil, "gpt-4o-mini", "gpt-4o-mini")

	const workers, per = 16, 250
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			role := model.RoleGenerate
			if i%2 == 1 {
				role = model.RoleJudge
			}
			for range per {
				a.Record(ctx, role, 3, 7)
			}
		}()
	}
	wg.Wait()

	for _, role := range []model.Role{model.RoleGenerate, model.RoleJudge} {
		got := a.Counters(role)
		want := Counters{InputTokens: 3 * per * workers / 2, OutputTokens: 7 * per * workers / 2, Calls: per * workers / 2}
		if got != want {
			t.Errorf("Counters(%s) = %+v, wanted = %+v", role, got, want)
		}
	}
}

func TestAccountantIgnoresNegative(t *testing.T) {
	t.Parallel()

	a := New(nil, "gpt-4o-mini", "gpt-4o-mini")
	a.Record(context.Background(), model.RoleJudge, 10, 10)
	a.Record(context.Background(), model.RoleJudge, -100, -100)

	got := a.Counters(model.RoleJudge)
	if got.InputTokens != 10 || got.OutputTokens != 10 || got.Calls != 2 {
		t.Errorf("Counters() = %+v, wanted tokens 10/10 over 2 calls", got)
	}
}
