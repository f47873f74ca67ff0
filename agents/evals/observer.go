/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"path/filepath"
	"sort"
	"sync"
)

// Observer receives the outcome of each evaluation unit.
type Observer interface {
	// Fail marks the unit as failed with the given message
	// Should be called at most once per unit
	Fail(string)
	// Log logs a message
	// Can be called multiple times per unit
	Log(string)
	// Grade records the judge's score (1-5) with its justification
	// Should be called at most once per unit
	Grade(score float64, reasoning string)
	// Increment is called each time a unit terminates
	Increment()
	// Total returns the number of observed units
	Total() int64
}

// multiObserver fans every call out to a list of observers.
type multiObserver []Observer

// Multi returns an Observer that forwards to each of obs in order. Total
// reports the first observer's count.
func Multi(obs ...Observer) Observer {
	return multiObserver(obs)
}

func (m multiObserver) Fail(msg string) {
	for _, o := range m {
		o.Fail(msg)
	}
}

func (m multiObserver) Log(msg string) {
	for _, o := range m {
		o.Log(msg)
	}
}

func (m multiObserver) Grade(score float64, reasoning string) {
	for _, o := range m {
		o.Grade(score, reasoning)
	}
}

func (m multiObserver) Increment() {
	for _, o := range m {
		o.Increment()
	}
}

func (m multiObserver) Total() int64 {
	if len(m) == 0 {
		return 0
	}
	return m[0].Total()
}

// NamespacedObserver provides hierarchical namespacing for Observer instances
type NamespacedObserver[T Observer] struct {
	name     string                            // The name of this namespace node
	inner    T                                 // The Observer instance for this namespace
	factory  func(string) T                    // Factory function to create new T instances
	children map[string]*NamespacedObserver[T] // Child namespaces
	mu       sync.Mutex                        // Protects children map
}

// NewNamespacedObserver creates a new root NamespacedObserver with the given factory function
func NewNamespacedObserver[T Observer](factory func(string) T) *NamespacedObserver[T] {
	return &NamespacedObserver[T]{
		name:     "/",
		inner:    factory("/"),
		factory:  factory,
		children: make(map[string]*NamespacedObserver[T]),
	}
}

// Fail delegates to the inner Observer instance
func (n *NamespacedObserver[T]) Fail(msg string) {
	n.inner.Fail(msg)
}

// Log delegates to the inner Observer instance
func (n *NamespacedObserver[T]) Log(msg string) {
	n.inner.Log(msg)
}

// Grade delegates to the inner Observer instance
func (n *NamespacedObserver[T]) Grade(score float64, reasoning string) {
	n.inner.Grade(score, reasoning)
}

// Increment delegates to the inner Observer instance
func (n *NamespacedObserver[T]) Increment() {
	n.inner.Increment()
}

// Total delegates to the inner Observer instance
func (n *NamespacedObserver[T]) Total() int64 {
	return n.inner.Total()
}

// Child returns the child namespace with the given name, creating it if necessary
func (n *NamespacedObserver[T]) Child(name string) *NamespacedObserver[T] {
	n.mu.Lock()
	defer n.mu.Unlock()

	if child, exists := n.children[name]; exists {
		return child
	}

	childPath := filepath.Join(n.name, name)
	child := &NamespacedObserver[T]{
		name:     childPath,
		inner:    n.factory(childPath),
		factory:  n.factory,
		children: make(map[string]*NamespacedObserver[T]),
	}

	n.children[name] = child
	return child
}

// Path descends through Child for each non-empty part, so a prompt's
// category and subcategory select its namespace.
func (n *NamespacedObserver[T]) Path(parts ...string) *NamespacedObserver[T] {
	node := n
	for _, part := range parts {
		if part == "" {
			continue
		}
		node = node.Child(part)
	}
	return node
}

// Walk traverses the observer tree in depth-first order, calling the visitor function
// on the current node first, then on all children in sorted order by name
func (n *NamespacedObserver[T]) Walk(visitor func(string, T)) {
	visitor(n.name, n.inner)

	n.mu.Lock()
	childNames := make([]string, 0, len(n.children))
	for name := range n.children {
		childNames = append(childNames, name)
	}
	n.mu.Unlock()

	sort.Strings(childNames)

	for _, name := range childNames {
		n.mu.Lock()
		child := n.children[name]
		n.mu.Unlock()

		child.Walk(visitor)
	}
}
