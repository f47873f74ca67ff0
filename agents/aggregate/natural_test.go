/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package aggregate

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompareNatural(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"p1", "p2", -1},
		{"p2", "p10", -1},
		{"p10", "p2", 1},
		{"p10", "p10", 0},
		{"p01", "p1", 1},
		{"L4.11", "L4.2", 1},
		{"a", "ab", -1},
		{"", "", 0},
		{"retention-3-b", "retention-3-a", 1},
	}
	for _, tt := range tests {
		if got := CompareNatural(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareNatural(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareNaturalSort(t *testing.T) {
	ids := []string{"p10", "p9", "q1", "p100", "p1", "p01"}
	slices.SortFunc(ids, CompareNatural)

	want := []string{"p1", "p01", "p9", "p10", "p100", "q1"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("sorted (-want +got):\n%s", diff)
	}
}
