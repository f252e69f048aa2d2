// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package adversarial_test

import (
	"math"
	"testing"

	"github.com/AleutianAI/searchtrace/services/search/algorithms"
	"github.com/AleutianAI/searchtrace/services/search/algorithms/adversarial"
	"github.com/AleutianAI/searchtrace/services/search/problem"
	"github.com/AleutianAI/searchtrace/services/search/scenarios"
	"github.com/AleutianAI/searchtrace/services/search/trace"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	Kind trace.Kind
	Node string
}

func steps(events []trace.Event) []step {
	out := make([]step, 0, len(events))
	for _, e := range events {
		out = append(out, step{e.Kind, e.Subject.String()})
	}
	return out
}

// buildTree declares nodes as "id type children..." or "id terminal value".
func buildTree(t *testing.T, lines ...string) *problem.GameTree {
	t.Helper()
	doc := &problem.Document{Kind: problem.KindGame, Nodes: lines}
	tree, err := doc.GameTree()
	require.NoError(t, err)
	return tree
}

func TestEvaluate_Minimax(t *testing.T) {
	rec := trace.NewRecorder()
	res, err := adversarial.Evaluate(scenarios.SampleGameTree(), "A", adversarial.Options{}, rec)
	require.NoError(t, err)

	assert.Equal(t, trace.OutcomeEvaluated, res.Outcome)
	assert.Equal(t, 3.0, res.Value)
	assert.Equal(t, problem.NodeID("B"), res.BestMove)
	assert.Equal(t, []problem.NodeID{"D", "E", "B", "F", "G", "C", "A"}, res.Evaluated)
	assert.Empty(t, res.Pruned)

	tr := rec.Export(adversarial.NameMinimax, res.Outcome)
	assert.Equal(t, 7, tr.Count(trace.KindEvaluate))
	assert.Zero(t, tr.Count(trace.KindPrune))
}

func TestEvaluate_AlphaBetaPrunesG(t *testing.T) {
	rec := trace.NewRecorder()
	res, err := adversarial.Evaluate(scenarios.SampleGameTree(), "A", adversarial.Options{Pruning: true}, rec)
	require.NoError(t, err)

	assert.Equal(t, 3.0, res.Value)
	assert.Equal(t, problem.NodeID("B"), res.BestMove)
	assert.Equal(t, []problem.NodeID{"G"}, res.Pruned)

	want := []step{
		{trace.KindEvaluate, "D"},
		{trace.KindEvaluate, "E"},
		{trace.KindEvaluate, "B"},
		{trace.KindEvaluate, "F"},
		{trace.KindPrune, "G"},
		{trace.KindEvaluate, "C"},
		{trace.KindEvaluate, "A"},
	}
	events := rec.Events()
	if diff := cmp.Diff(want, steps(events)); diff != "" {
		t.Errorf("event sequence mismatch (-want +got):\n%s", diff)
	}

	prune := events[4]
	assert.Equal(t, 3.0, prune.Metrics[trace.MetricAlpha])
	assert.Equal(t, 2.0, prune.Metrics[trace.MetricBeta])
	assert.Equal(t, 2.0, prune.Metrics[trace.MetricDepth])
	assert.Equal(t, []string{"parent=C", "alpha>=beta at MIN"}, prune.Labels)

	// The first leaf is seen with the full window.
	assert.True(t, math.IsInf(events[0].Metrics[trace.MetricAlpha], -1))
	assert.True(t, math.IsInf(events[0].Metrics[trace.MetricBeta], 1))
}

func TestEvaluate_SameValueWithAndWithoutPruning(t *testing.T) {
	tree := buildTree(t,
		"A max B C D",
		"B min E F G",
		"C min H I",
		"D min J K",
		"E terminal 3", "F terminal 12", "G terminal 8",
		"H terminal 2", "I terminal 4",
		"J terminal 14", "K terminal 1",
	)
	plain, err := adversarial.Evaluate(tree, "A", adversarial.Options{}, trace.NewRecorder())
	require.NoError(t, err)
	pruned, err := adversarial.Evaluate(tree, "A", adversarial.Options{Pruning: true}, trace.NewRecorder())
	require.NoError(t, err)

	assert.Equal(t, plain.Value, pruned.Value)
	assert.Equal(t, plain.BestMove, pruned.BestMove)
	assert.Equal(t, 3.0, pruned.Value)
	assert.Equal(t, []problem.NodeID{"I"}, pruned.Pruned)
	assert.Less(t, len(pruned.Evaluated), len(plain.Evaluated))
}

func TestEvaluate_PrunesWholeSubtree(t *testing.T) {
	tree := buildTree(t,
		"A max B C",
		"B min D",
		"C min F G",
		"G max H I",
		"D terminal 5", "F terminal 3", "H terminal 1", "I terminal 2",
	)
	rec := trace.NewRecorder()
	res, err := adversarial.Evaluate(tree, "A", adversarial.Options{Pruning: true}, rec)
	require.NoError(t, err)

	assert.Equal(t, 5.0, res.Value)
	assert.Equal(t, []problem.NodeID{"G", "H", "I"}, res.Pruned)

	prunes := rec.Export(adversarial.NameAlphaBeta, res.Outcome).Filter(trace.KindPrune)
	require.Len(t, prunes, 1)
	assert.Equal(t, "G", prunes[0].Subject.String())
	assert.Equal(t, 3.0, prunes[0].Metrics["subtree_size"])
	for _, e := range rec.Events() {
		if e.Kind == trace.KindEvaluate {
			assert.NotContains(t, []string{"G", "H", "I"}, e.Subject.String())
		}
	}
}

func TestEvaluate_CutoffAtMax(t *testing.T) {
	tree := buildTree(t,
		"A min B C",
		"B max D",
		"C max F G",
		"D terminal 2", "F terminal 7", "G terminal 1",
	)
	rec := trace.NewRecorder()
	res, err := adversarial.Evaluate(tree, "A", adversarial.Options{Pruning: true}, rec)
	require.NoError(t, err)

	assert.Equal(t, 2.0, res.Value)
	prunes := rec.Export(adversarial.NameAlphaBeta, res.Outcome).Filter(trace.KindPrune)
	require.Len(t, prunes, 1)
	assert.True(t, prunes[0].HasLabel("alpha>=beta at MAX"))
}

func TestEvaluate_TerminalRoot(t *testing.T) {
	tree := buildTree(t, "X terminal 4")
	rec := trace.NewRecorder()
	res, err := adversarial.Evaluate(tree, "X", adversarial.Options{Pruning: true}, rec)
	require.NoError(t, err)

	assert.Equal(t, 4.0, res.Value)
	assert.Empty(t, res.BestMove)
	assert.Equal(t, 1, rec.Len())
}

func TestEvaluate_InvalidInput(t *testing.T) {
	_, err := adversarial.Evaluate(scenarios.SampleGameTree(), "Z", adversarial.Options{}, trace.NewRecorder())
	assert.ErrorIs(t, err, algorithms.ErrUnknownNode)

	_, err = adversarial.Evaluate(nil, "A", adversarial.Options{}, trace.NewRecorder())
	assert.ErrorIs(t, err, algorithms.ErrInvalidInput)

	_, err = adversarial.Evaluate(scenarios.SampleGameTree(), "A", adversarial.Options{Pruning: true}, nil)
	assert.ErrorIs(t, err, algorithms.ErrInvalidInput)
}

func TestOptions_Name(t *testing.T) {
	assert.Equal(t, adversarial.NameMinimax, adversarial.Options{}.Name())
	assert.Equal(t, adversarial.NameAlphaBeta, adversarial.Options{Pruning: true}.Name())
}
