// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package problem

import (
	"fmt"
	"math"
)

// Heuristic estimates the remaining cost from a node to a fixed goal.
//
// Description:
//
//	A* only guarantees a minimum-cost path when the heuristic is admissible:
//	Estimate(n) must never exceed the true remaining cost from n. This is a
//	precondition documented for callers, not something Heuristic enforces.
//
// Thread Safety: Safe for concurrent use (immutable).
type Heuristic struct {
	estimates map[NodeID]float64
}

// NewHeuristic validates estimates against g and returns a Heuristic.
//
// Inputs:
//
//	g - The graph the estimates refer to.
//	estimates - Per-node estimates. Nodes without an entry estimate 0.
//
// Outputs:
//
//	Heuristic - The heuristic table (copied).
//	error - ErrMalformedProblem wrapped for unknown nodes or negative,
//	        NaN or infinite estimates.
func NewHeuristic(g *Graph, estimates map[NodeID]float64) (Heuristic, error) {
	h := Heuristic{estimates: make(map[NodeID]float64, len(estimates))}
	for id, v := range estimates {
		if g != nil && !g.Has(id) {
			return Heuristic{}, fmt.Errorf("%w: heuristic names unknown node %s", ErrMalformedProblem, id)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Heuristic{}, fmt.Errorf("%w: heuristic for %s is %v", ErrMalformedProblem, id, v)
		}
		h.estimates[id] = v
	}
	return h, nil
}

// ZeroHeuristic returns a heuristic that estimates 0 everywhere.
// A* with it behaves as uniform-cost search.
func ZeroHeuristic() Heuristic {
	return Heuristic{}
}

// Estimate returns h(id), or 0 when id has no entry.
func (h Heuristic) Estimate(id NodeID) float64 {
	return h.estimates[id]
}

// With returns a copy of h where id estimates v.
//
// Used to derive variants of a table, for example a deliberately
// inadmissible one.
func (h Heuristic) With(id NodeID, v float64) (Heuristic, error) {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return Heuristic{}, fmt.Errorf("%w: heuristic for %s is %v", ErrMalformedProblem, id, v)
	}
	out := Heuristic{estimates: make(map[NodeID]float64, len(h.estimates)+1)}
	for k, e := range h.estimates {
		out.estimates[k] = e
	}
	out.estimates[id] = v
	return out, nil
}
