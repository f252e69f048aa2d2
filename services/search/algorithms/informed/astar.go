// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package informed implements A* search.
//
// The frontier is keyed by f = g + h with ties broken by insertion order.
// There is no closed set: a node is (re)inserted whenever a strictly cheaper
// path to it is found, including nodes that were already expanded. With an
// admissible, consistent heuristic the first goal expansion is optimal.
package informed

import (
	"math"

	"github.com/AleutianAI/searchtrace/services/search/algorithms"
	"github.com/AleutianAI/searchtrace/services/search/problem"
	"github.com/AleutianAI/searchtrace/services/search/trace"
)

// Name is the algorithm name recorded in traces.
const Name = "astar"

// Result summarises an A* run.
type Result struct {
	// Outcome is GoalReached or Unreachable.
	Outcome trace.Outcome

	// Path from start to goal; nil when unreachable.
	Path []problem.NodeID

	// Cost is the g value of the goal when reached.
	Cost float64

	// Expanded lists nodes in expansion order. A reopened node appears again.
	Expanded []problem.NodeID
}

// Search runs A* on g from start to goal.
//
// Description:
//
//	Pops the minimum-f entry and emits Expand with its g, h and f. The goal
//	emits GoalReached with the path reconstructed from parent pointers.
//	Otherwise each neighbour whose tentative g beats the best known g is
//	given the current node as parent and (re)inserted, emitting
//	FrontierUpdate. Labels mark "improved" entries that replace a worse
//	queued path and "reopened" nodes that had already been expanded. An
//	empty frontier emits Exhausted and yields OutcomeUnreachable.
//
// Inputs:
//
//	g - The graph. Must not be nil.
//	h - Heuristic estimates; missing nodes estimate 0.
//	start, goal - Nodes of g.
//	rec - Recorder receiving the events. Must not be nil.
//
// Outputs:
//
//	Result - The outcome, path and expansion order.
//	error - *algorithms.AlgorithmError for an invalid invocation.
//
// Thread Safety: Safe for concurrent use with distinct recorders.
func Search(g *problem.Graph, h problem.Heuristic, start, goal problem.NodeID, rec *trace.Recorder) (Result, error) {
	if g == nil || rec == nil {
		return Result{}, algorithms.Invalid(Name, "Search", algorithms.ErrInvalidInput, "graph and recorder are required")
	}
	if !g.Has(start) {
		return Result{}, algorithms.Invalid(Name, "Search", algorithms.ErrUnknownNode, "start %s", start)
	}
	if !g.Has(goal) {
		return Result{}, algorithms.Invalid(Name, "Search", algorithms.ErrUnknownNode, "goal %s", goal)
	}

	best := map[problem.NodeID]float64{start: 0}
	parent := make(map[problem.NodeID]problem.NodeID)
	expanded := make(map[problem.NodeID]bool)
	open := newFrontier()

	hs := h.Estimate(start)
	open.push(start, 0, hs)
	rec.Emit(trace.NewEvent(trace.KindFrontierUpdate).
		On(string(start)).
		With(trace.MetricG, 0).
		With(trace.MetricH, hs).
		With(trace.MetricF, hs).
		With(trace.MetricFrontierSize, 1))

	var res Result
	for {
		cur, ok := open.pop()
		if !ok {
			break
		}
		hc := h.Estimate(cur.id)
		res.Expanded = append(res.Expanded, cur.id)

		expand := trace.NewEvent(trace.KindExpand).
			On(string(cur.id)).
			With(trace.MetricG, cur.g).
			With(trace.MetricH, hc).
			With(trace.MetricF, cur.f).
			With(trace.MetricFrontierSize, float64(open.size()))
		if p, ok := parent[cur.id]; ok {
			expand.Label("parent=" + string(p))
		}
		rec.Emit(expand)

		if cur.id == goal {
			res.Outcome = trace.OutcomeGoalReached
			res.Path = algorithms.Reconstruct(parent, goal)
			res.Cost = cur.g
			rec.Emit(trace.NewEvent(trace.KindGoalReached).
				On(string(goal)).
				With(trace.MetricCost, cur.g).
				With(trace.MetricExplored, float64(len(res.Expanded))).
				Label(algorithms.PathLabel(res.Path)))
			return res, nil
		}
		expanded[cur.id] = true

		for _, e := range g.Neighbors(cur.id) {
			tentative := cur.g + e.Cost
			known, seen := best[e.To]
			if seen && !(tentative < known) {
				continue
			}
			best[e.To] = tentative
			parent[e.To] = cur.id
			hn := h.Estimate(e.To)
			open.push(e.To, tentative, tentative+hn)

			update := trace.NewEvent(trace.KindFrontierUpdate).
				On(string(e.To)).
				With(trace.MetricG, tentative).
				With(trace.MetricH, hn).
				With(trace.MetricF, tentative+hn).
				With(trace.MetricFrontierSize, float64(open.size())).
				Label("parent=" + string(cur.id))
			if seen {
				update.With("previous_g", known)
				if expanded[e.To] {
					update.Label("reopened")
				} else {
					update.Label("improved")
				}
			}
			rec.Emit(update)
		}
	}

	res.Outcome = trace.OutcomeUnreachable
	rec.Emit(trace.NewEvent(trace.KindExhausted).
		On(string(goal)).
		With(trace.MetricExplored, float64(len(res.Expanded))).
		Label("unreachable"))
	return res, nil
}

// -----------------------------------------------------------------------------
// Admissibility
// -----------------------------------------------------------------------------

// TrueCosts returns the cheapest cost from every node to goal.
//
// Description:
//
//	Runs uniform-cost search from goal over the reversed arcs, using the
//	same stable frontier as Search. Nodes that cannot reach goal are absent.
func TrueCosts(g *problem.Graph, goal problem.NodeID) (map[problem.NodeID]float64, error) {
	if g == nil {
		return nil, algorithms.Invalid(Name, "TrueCosts", algorithms.ErrInvalidInput, "graph is required")
	}
	if !g.Has(goal) {
		return nil, algorithms.Invalid(Name, "TrueCosts", algorithms.ErrUnknownNode, "goal %s", goal)
	}

	rev := g.Reverse()
	dist := map[problem.NodeID]float64{goal: 0}
	done := make(map[problem.NodeID]bool)
	open := newFrontier()
	open.push(goal, 0, 0)
	for {
		cur, ok := open.pop()
		if !ok {
			break
		}
		done[cur.id] = true
		for _, e := range rev.Neighbors(cur.id) {
			if done[e.To] {
				continue
			}
			d := cur.g + e.Cost
			if known, ok := dist[e.To]; ok && !(d < known) {
				continue
			}
			dist[e.To] = d
			open.push(e.To, d, d)
		}
	}
	return dist, nil
}

// Overestimates lists, in graph node order, the nodes whose heuristic
// estimate exceeds the true cost to goal. An empty result means h is
// admissible for goal.
func Overestimates(g *problem.Graph, h problem.Heuristic, goal problem.NodeID) ([]problem.NodeID, error) {
	dist, err := TrueCosts(g, goal)
	if err != nil {
		return nil, err
	}
	var out []problem.NodeID
	for _, id := range g.Nodes() {
		d, ok := dist[id]
		if !ok {
			d = math.Inf(1)
		}
		if h.Estimate(id) > d {
			out = append(out, id)
		}
	}
	return out, nil
}
