/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trial

import "testing"

func TestTransitions(t *testing.T) {
	t.Parallel()

	all := []State{Pending, Generating, Generated, Judging, Judged, Failed}
	legal := map[[2]State]bool{
		{Pending, Generating}:   true,
		{Generating, Generated}: true,
		{Generating, Failed}:    true,
		{Generated, Judging}:    true,
		{Judging, Judged}:       true,
		{Judging, Failed}:       true,
	}

	for _, from := range all {
		for _, to := range all {
			if got, want := from.CanTransition(to), legal[[2]State{from, to}]; got != want {
				t.Errorf("%s -> %s: got = %v, wanted = %v", from, to, got, want)
			}
		}
	}
}

func TestTerminal(t *testing.T) {
	t.Parallel()

	for _, s := range []State{Pending, Generating, Generated, Judging} {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, wanted false", s)
		}
	}
	for _, s := range []State{Judged, Failed} {
		if !s.Terminal() {
			t.Errorf("%s.Terminal() = false, wanted true", s)
		}
	}
}

func TestMachineRejectsReentry(t *testing.T) {
	t.Parallel()

	m := &machine{state: Pending}
	m.advance(Generating)
	m.advance(Generated)

	defer func() {
		if recover() == nil {
			t.Error("advance(Generating) from generated did not panic")
		}
	}()
	m.advance(Generating)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	if got := Judging.String(); got != "judging" {
		t.Errorf("String() = %q, wanted = %q", got, "judging")
	}
	if got := State(42).String(); got != "state(42)" {
		t.Errorf("String() = %q, wanted = %q", got, "state(42)")
	}
}
