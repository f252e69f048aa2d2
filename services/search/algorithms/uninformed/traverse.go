// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package uninformed implements depth-first and breadth-first traversal.
//
// Both share one loop and differ only in which end of the frontier is
// removed: LIFO gives DFS, FIFO gives BFS. Nodes are marked visited when
// they enter the frontier, so each node is queued at most once, and the goal
// test happens when a node is taken off the frontier.
package uninformed

import (
	"fmt"

	"github.com/AleutianAI/searchtrace/services/search/algorithms"
	"github.com/AleutianAI/searchtrace/services/search/problem"
	"github.com/AleutianAI/searchtrace/services/search/trace"
)

// Order selects the frontier discipline.
type Order int

const (
	// LIFO removes the newest frontier entry (depth-first search).
	LIFO Order = iota + 1

	// FIFO removes the oldest frontier entry (breadth-first search).
	FIFO
)

// String returns "dfs" or "bfs", the algorithm names used in traces.
func (o Order) String() string {
	switch o {
	case LIFO:
		return "dfs"
	case FIFO:
		return "bfs"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// ParseOrder accepts "dfs", "lifo", "bfs" or "fifo".
func ParseOrder(s string) (Order, error) {
	switch s {
	case "dfs", "lifo", "DFS", "LIFO":
		return LIFO, nil
	case "bfs", "fifo", "BFS", "FIFO":
		return FIFO, nil
	default:
		return 0, fmt.Errorf("%w: unknown traversal order %q", algorithms.ErrInvalidConfig, s)
	}
}

// Result summarises a traversal.
type Result struct {
	// Outcome is GoalReached or Exhausted.
	Outcome trace.Outcome

	// Path from start to goal; nil when the goal was not reached.
	Path []problem.NodeID

	// Cost is the summed edge cost of Path.
	Cost float64

	// Explored lists nodes in the order they were taken off the frontier.
	Explored []problem.NodeID

	// Discovered is the number of nodes that ever entered the frontier.
	Discovered int
}

type entry struct {
	id    problem.NodeID
	depth int
}

// Traverse searches g from start towards goal.
//
// Description:
//
//	The frontier is seeded with start (one FrontierUpdate event). Each
//	iteration removes one entry per order and emits Visit; reaching goal
//	emits GoalReached and stops. Otherwise every neighbour not yet seen,
//	in declared arc order, is marked visited, queued and reported with a
//	FrontierUpdate. An empty frontier emits Exhausted.
//
// Inputs:
//
//	g - The graph. Must not be nil.
//	start, goal - Nodes of g.
//	order - LIFO (DFS) or FIFO (BFS).
//	rec - Recorder receiving the events. Must not be nil.
//
// Outputs:
//
//	Result - The outcome and what was explored.
//	error - *algorithms.AlgorithmError for an invalid invocation.
//
// Thread Safety: Safe for concurrent use with distinct recorders.
func Traverse(g *problem.Graph, start, goal problem.NodeID, order Order, rec *trace.Recorder) (Result, error) {
	name := order.String()
	if order != LIFO && order != FIFO {
		return Result{}, algorithms.Invalid(name, "Traverse", algorithms.ErrInvalidConfig, "unknown order")
	}
	if g == nil || rec == nil {
		return Result{}, algorithms.Invalid(name, "Traverse", algorithms.ErrInvalidInput, "graph and recorder are required")
	}
	if !g.Has(start) {
		return Result{}, algorithms.Invalid(name, "Traverse", algorithms.ErrUnknownNode, "start %s", start)
	}
	if !g.Has(goal) {
		return Result{}, algorithms.Invalid(name, "Traverse", algorithms.ErrUnknownNode, "goal %s", goal)
	}

	visited := map[problem.NodeID]bool{start: true}
	parent := make(map[problem.NodeID]problem.NodeID)
	frontier := []entry{{id: start}}
	head := 0 // FIFO read position

	rec.Emit(trace.NewEvent(trace.KindFrontierUpdate).
		On(string(start)).
		With(trace.MetricDepth, 0).
		With(trace.MetricFrontierSize, 1))

	var res Result
	for head < len(frontier) {
		var cur entry
		if order == LIFO {
			cur = frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
		} else {
			cur = frontier[head]
			head++
		}
		res.Explored = append(res.Explored, cur.id)

		rec.Emit(trace.NewEvent(trace.KindVisit).
			On(string(cur.id)).
			With(trace.MetricDepth, float64(cur.depth)).
			With(trace.MetricFrontierSize, float64(len(frontier)-head)).
			With(trace.MetricExplored, float64(len(res.Explored))))

		if cur.id == goal {
			res.Outcome = trace.OutcomeGoalReached
			res.Path = algorithms.Reconstruct(parent, goal)
			cost, err := g.PathCost(res.Path)
			if err != nil {
				return Result{}, &algorithms.AlgorithmError{Algorithm: name, Operation: "Traverse", Err: err}
			}
			res.Cost = cost
			res.Discovered = len(visited)
			rec.Emit(trace.NewEvent(trace.KindGoalReached).
				On(string(goal)).
				With(trace.MetricCost, cost).
				With(trace.MetricDepth, float64(cur.depth)).
				With(trace.MetricExplored, float64(len(res.Explored))).
				Label(algorithms.PathLabel(res.Path)))
			return res, nil
		}

		for _, e := range g.Neighbors(cur.id) {
			if visited[e.To] {
				continue
			}
			visited[e.To] = true
			parent[e.To] = cur.id
			frontier = append(frontier, entry{id: e.To, depth: cur.depth + 1})
			rec.Emit(trace.NewEvent(trace.KindFrontierUpdate).
				On(string(e.To)).
				With(trace.MetricDepth, float64(cur.depth+1)).
				With(trace.MetricFrontierSize, float64(len(frontier)-head)).
				Label("parent=" + string(cur.id)))
		}
	}

	res.Outcome = trace.OutcomeExhausted
	res.Discovered = len(visited)
	rec.Emit(trace.NewEvent(trace.KindExhausted).
		With(trace.MetricExplored, float64(len(res.Explored))))
	return res, nil
}
