/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package testevals adapts a testing.TB to evals.Observer, so a unit or
// scheduler test can assert that every evaluation it drives succeeds with a
// score on the rubric scale.
//
//	root := evals.NewNamespacedObserver(func(ns string) evals.Observer {
//		return testevals.NewPrefix(t, ns)
//	})
package testevals
