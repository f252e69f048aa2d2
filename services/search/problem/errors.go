// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package problem provides the problem models the search algorithms run on.
//
// Three models are supported:
//   - Graph: weighted directed or undirected graph, plus a Heuristic table
//     for informed search
//   - CSP: ordered variables with ordered finite domains and constraints
//     over partial assignments
//   - GameTree: MAX/MIN/TERMINAL nodes for adversarial search
//
// # Lifecycle
//
// Every model is constructed through a builder:
//  1. Create with NewGraphBuilder, NewCSPBuilder or NewGameTreeBuilder
//  2. Declare contents with the Add* calls
//  3. Call Build() to validate and obtain the immutable model
//
// Any violation of a model invariant is reported as ErrMalformedProblem by the
// Add* call that introduced it, or by Build() when it can only be detected
// once the whole model is known. Nothing is silently corrected.
//
// # Ordering
//
// Declaration order is part of the model: graph neighbours, CSP variables,
// domain values, constraints and game-tree children are always iterated in
// the order they were declared. Search traces depend on it.
//
// # Thread Safety
//
// Builders are NOT safe for concurrent use. Built models are immutable and
// can be shared by any number of concurrent searches.
package problem

import "errors"

// Sentinel errors for problem construction and lookup.
var (
	// ErrMalformedProblem is returned when a declaration violates a model
	// invariant (asymmetric undirected edge, constraint over an undeclared
	// variable, cyclic game tree, ...). It is always fatal to the call.
	ErrMalformedProblem = errors.New("malformed problem")

	// ErrUnknownNode is returned when a lookup names a node or variable
	// that was never declared.
	ErrUnknownNode = errors.New("unknown node")

	// ErrBuilderSealed is returned when a builder is used after Build().
	ErrBuilderSealed = errors.New("builder already built")

	// ErrUnsupportedDocument is returned when a declarative document has an
	// unknown kind or is asked for a model of a different kind.
	ErrUnsupportedDocument = errors.New("unsupported problem document")
)
