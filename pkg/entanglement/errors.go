// Copyright 2025 Certen Protocol
//
// Package entanglement builds tamper-evident dependency graphs over an
// article's parts and computes content-addressed digests over them.

package entanglement

import "errors"

// Sentinel errors for entanglement graph operations.
var (
	// ErrNilDependency is returned when AddDependency is given a nil node.
	ErrNilDependency = errors.New("entanglement: dependency must not be nil")

	// ErrSelfDependency is returned when a node is made to depend on itself.
	ErrSelfDependency = errors.New("entanglement: node cannot depend on itself")

	// ErrCycle is returned when adding a dependency would create a cycle.
	ErrCycle = errors.New("entanglement: dependency would create a cycle")

	// ErrFrozenNode is returned when a dependency is added to a node whose
	// digest has already been computed.
	ErrFrozenNode = errors.New("entanglement: node digest already computed, cannot add dependency")

	// ErrEmptyGraph is returned when a graph is built from zero nodes.
	ErrEmptyGraph = errors.New("entanglement: cannot build graph from zero nodes")

	// ErrNilNode is returned when a graph is built with a nil node in its
	// node list.
	ErrNilNode = errors.New("entanglement: graph node must not be nil")

	// ErrRootNotComputed reports a graph whose root has not been computed.
	// No function in this package currently returns it: NewGraph always
	// computes the root before returning the graph.
	ErrRootNotComputed = errors.New("entanglement: graph root not yet computed")
)
