// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package adversarial implements minimax with optional alpha-beta pruning.
package adversarial

import (
	"math"

	"github.com/AleutianAI/searchtrace/services/search/algorithms"
	"github.com/AleutianAI/searchtrace/services/search/problem"
	"github.com/AleutianAI/searchtrace/services/search/trace"
)

// Algorithm names recorded in traces.
const (
	NameMinimax   = "minimax"
	NameAlphaBeta = "alphabeta"
)

// Options controls an evaluation.
type Options struct {
	// Pruning enables alpha-beta cutoffs.
	Pruning bool
}

// Name returns the algorithm name for the options.
func (o Options) Name() string {
	if o.Pruning {
		return NameAlphaBeta
	}
	return NameMinimax
}

// Result summarises an evaluation.
type Result struct {
	// Outcome is always Evaluated.
	Outcome trace.Outcome

	// Value is the game-theoretic value of the root.
	Value float64

	// BestMove is the first child of the root achieving Value. Empty when
	// the root is terminal.
	BestMove problem.NodeID

	// Evaluated lists nodes in the order their value became known (post-order).
	Evaluated []problem.NodeID

	// Pruned lists every node of every skipped subtree, in pre-order.
	Pruned []problem.NodeID
}

type evaluator struct {
	tree *problem.GameTree
	opts Options
	rec  *trace.Recorder
	res  Result
}

// Evaluate computes the minimax value of root.
//
// Description:
//
//	Post-order recursion. Terminal nodes emit Evaluate with their value.
//	MAX nodes take the maximum of their children and raise alpha; MIN nodes
//	take the minimum and lower beta. Internal nodes emit Evaluate once all
//	their (unpruned) children are known. With pruning enabled, after each
//	child the remaining siblings are skipped once alpha >= beta; each
//	skipped child emits one Prune event and is never evaluated. The root
//	value is the same with and without pruning.
//
// Inputs:
//
//	tree - The game tree. Must not be nil.
//	root - Node to evaluate.
//	opts - Pruning switch.
//	rec - Recorder receiving the events. Must not be nil.
//
// Outputs:
//
//	Result - Root value, best move, evaluation order and pruned nodes.
//	error - *algorithms.AlgorithmError for an invalid invocation.
//
// Thread Safety: Safe for concurrent use with distinct recorders.
func Evaluate(tree *problem.GameTree, root problem.NodeID, opts Options, rec *trace.Recorder) (Result, error) {
	name := opts.Name()
	if tree == nil || rec == nil {
		return Result{}, algorithms.Invalid(name, "Evaluate", algorithms.ErrInvalidInput, "tree and recorder are required")
	}
	if _, ok := tree.Node(root); !ok {
		return Result{}, algorithms.Invalid(name, "Evaluate", algorithms.ErrUnknownNode, "root %s", root)
	}

	ev := &evaluator{tree: tree, opts: opts, rec: rec}
	value, best := ev.eval(root, math.Inf(-1), math.Inf(1), 0)

	ev.res.Outcome = trace.OutcomeEvaluated
	ev.res.Value = value
	ev.res.BestMove = best
	return ev.res, nil
}

// eval returns the value of id and, for internal nodes, the first child
// achieving it.
func (ev *evaluator) eval(id problem.NodeID, alpha, beta float64, depth int) (float64, problem.NodeID) {
	node, _ := ev.tree.Node(id)

	if node.Type == problem.Terminal {
		ev.emitEvaluate(node, node.Value, alpha, beta, depth)
		return node.Value, ""
	}

	value := math.Inf(-1)
	if node.Type == problem.Min {
		value = math.Inf(1)
	}
	var best problem.NodeID

	for i, child := range node.Children {
		cv, _ := ev.eval(child, alpha, beta, depth+1)

		if node.Type == problem.Max {
			if cv > value {
				value, best = cv, child
			}
			alpha = math.Max(alpha, value)
		} else {
			if cv < value {
				value, best = cv, child
			}
			beta = math.Min(beta, value)
		}

		if ev.opts.Pruning && alpha >= beta && i+1 < len(node.Children) {
			ev.prune(node, node.Children[i+1:], alpha, beta, depth)
			break
		}
	}

	ev.emitEvaluate(node, value, alpha, beta, depth)
	return value, best
}

func (ev *evaluator) prune(node problem.GameNode, skipped []problem.NodeID, alpha, beta float64, depth int) {
	reason := "alpha>=beta at " + node.Type.String()
	for _, c := range skipped {
		subtree := ev.tree.Subtree(c)
		ev.res.Pruned = append(ev.res.Pruned, subtree...)
		ev.rec.Emit(trace.NewEvent(trace.KindPrune).
			On(string(c)).
			With(trace.MetricAlpha, alpha).
			With(trace.MetricBeta, beta).
			With(trace.MetricDepth, float64(depth+1)).
			With("subtree_size", float64(len(subtree))).
			Label("parent="+string(node.ID), reason))
	}
}

func (ev *evaluator) emitEvaluate(node problem.GameNode, value, alpha, beta float64, depth int) {
	ev.res.Evaluated = append(ev.res.Evaluated, node.ID)
	ev.rec.Emit(trace.NewEvent(trace.KindEvaluate).
		On(string(node.ID)).
		With(trace.MetricValue, value).
		With(trace.MetricAlpha, alpha).
		With(trace.MetricBeta, beta).
		With(trace.MetricDepth, float64(depth)).
		Label(node.Type.String()))
}
