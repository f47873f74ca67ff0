/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trial

import (
	"fmt"
	"slices"
)

// State is the lifecycle position of an evaluation unit.
type State int

const (
	Pending State = iota
	Generating
	Generated
	Judging
	Judged
	Failed
)

var stateNames = map[State]string{
	Pending:    "pending",
	Generating: "generating",
	Generated:  "generated",
	Judging:    "judging",
	Judged:     "judged",
	Failed:     "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Judged || s == Failed
}

// transitions lists the legal successors of each state. No state is re-entered.
var transitions = map[State][]State{
	Pending:    {Generating},
	Generating: {Generated, Failed},
	Generated:  {Judging},
	Judging:    {Judged, Failed},
}

// CanTransition reports whether a unit in s may move to next.
func (s State) CanTransition(next State) bool {
	return slices.Contains(transitions[s], next)
}

// machine tracks one unit's state and rejects illegal transitions.
type machine struct {
	state State
}

func (m *machine) advance(next State) {
	if !m.state.CanTransition(next) {
		panic(fmt.Sprintf("illegal unit transition %s -> %s", m.state, next))
	}
	m.state = next
}
