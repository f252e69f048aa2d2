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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphBuilder_Directed(t *testing.T) {
	b := NewGraphBuilder(Directed)
	require.NoError(t, b.AddEdge("A", "B", 1))
	require.NoError(t, b.AddEdge("A", "C", 2))
	require.NoError(t, b.AddEdge("C", "D", 3))
	require.NoError(t, b.AddNode("Z"))
	require.NoError(t, b.AddNode("A"))

	g, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, Directed, g.Kind())
	assert.Equal(t, []NodeID{"A", "B", "C", "D", "Z"}, g.Nodes())
	assert.Equal(t, 5, g.Len())
	assert.Equal(t, 3, g.ArcCount())
	assert.Equal(t, []Edge{{To: "B", Cost: 1}, {To: "C", Cost: 2}}, g.Neighbors("A"))
	assert.Nil(t, g.Neighbors("B"))
	assert.Nil(t, g.Neighbors("nope"))
	assert.True(t, g.Has("Z"))
	assert.False(t, g.Has("Y"))

	_, ok := g.Cost("B", "A")
	assert.False(t, ok, "directed arcs are one way")
}

func TestGraphBuilder_Undirected(t *testing.T) {
	b := NewGraphBuilder(Undirected)
	require.NoError(t, b.AddEdge("Arad", "Sibiu", 140))
	require.NoError(t, b.AddEdge("Arad", "Zerind", 75))

	g, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 4, g.ArcCount())
	c, ok := g.Cost("Sibiu", "Arad")
	assert.True(t, ok)
	assert.Equal(t, 140.0, c)
	assert.Equal(t, []Edge{{To: "Sibiu", Cost: 140}, {To: "Zerind", Cost: 75}}, g.Neighbors("Arad"))
}

func TestGraphBuilder_AdjacencyLists(t *testing.T) {
	b := NewGraphBuilder(Undirected)
	require.NoError(t, b.AddArc("A", "B", 2))
	require.NoError(t, b.AddArc("B", "A", 2))
	_, err := b.Build()
	require.NoError(t, err)
}

func TestGraphBuilder_RepeatedEdgeSameCost(t *testing.T) {
	b := NewGraphBuilder(Undirected)
	require.NoError(t, b.AddEdge("A", "B", 1))
	require.NoError(t, b.AddEdge("B", "A", 1))
	require.NoError(t, b.AddArc("A", "B", 1))

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, g.ArcCount())
	assert.Equal(t, []Edge{{To: "B", Cost: 1}}, g.Neighbors("A"))
}

func TestGraphBuilder_FailedEdgeLeavesNoArc(t *testing.T) {
	b := NewGraphBuilder(Undirected)
	require.NoError(t, b.AddArc("B", "A", 2))

	// The mirror B -> A conflicts, so A -> B must not be added either.
	err := b.AddEdge("A", "B", 1)
	require.ErrorIs(t, err, ErrMalformedProblem)

	require.NoError(t, b.AddArc("A", "B", 2))
	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []Edge{{To: "B", Cost: 2}}, g.Neighbors("A"))
	assert.Equal(t, 2, g.ArcCount())
}

func TestGraphBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *GraphBuilder) error
	}{
		{"negative cost", func(b *GraphBuilder) error { return b.AddEdge("A", "B", -1) }},
		{"NaN cost", func(b *GraphBuilder) error { return b.AddEdge("A", "B", math.NaN()) }},
		{"infinite cost", func(b *GraphBuilder) error { return b.AddEdge("A", "B", math.Inf(1)) }},
		{"self loop", func(b *GraphBuilder) error { return b.AddEdge("A", "A", 1) }},
		{"empty id", func(b *GraphBuilder) error { return b.AddEdge("", "A", 1) }},
		{"empty node", func(b *GraphBuilder) error { return b.AddNode("") }},
		{"duplicate arc with another cost", func(b *GraphBuilder) error {
			if err := b.AddEdge("A", "B", 1); err != nil {
				return err
			}
			return b.AddEdge("A", "B", 2)
		}},
		{"asymmetric undirected", func(b *GraphBuilder) error {
			if err := b.AddArc("A", "B", 1); err != nil {
				return err
			}
			_, err := b.Build()
			return err
		}},
		{"unequal mirror", func(b *GraphBuilder) error {
			if err := b.AddArc("A", "B", 1); err != nil {
				return err
			}
			if err := b.AddArc("B", "A", 2); err != nil {
				return err
			}
			_, err := b.Build()
			return err
		}},
		{"empty graph", func(b *GraphBuilder) error {
			_, err := b.Build()
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build(NewGraphBuilder(Undirected))
			if !errors.Is(err, ErrMalformedProblem) {
				t.Errorf("error = %v, want ErrMalformedProblem", err)
			}
		})
	}
}

func TestGraphBuilder_Sealed(t *testing.T) {
	b := NewGraphBuilder(Directed)
	require.NoError(t, b.AddNode("A"))
	_, err := b.Build()
	require.NoError(t, err)

	assert.ErrorIs(t, b.AddNode("B"), ErrBuilderSealed)
	assert.ErrorIs(t, b.AddArc("A", "B", 1), ErrBuilderSealed)
	_, err = b.Build()
	assert.ErrorIs(t, err, ErrBuilderSealed)
}

func TestGraph_PathCost(t *testing.T) {
	b := NewGraphBuilder(Directed)
	require.NoError(t, b.AddEdge("A", "B", 1.5))
	require.NoError(t, b.AddEdge("B", "C", 2))
	g, err := b.Build()
	require.NoError(t, err)

	cost, err := g.PathCost([]NodeID{"A", "B", "C"})
	require.NoError(t, err)
	assert.Equal(t, 3.5, cost)

	cost, err = g.PathCost([]NodeID{"A"})
	require.NoError(t, err)
	assert.Zero(t, cost)

	_, err = g.PathCost([]NodeID{"C", "A"})
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestGraph_Reverse(t *testing.T) {
	b := NewGraphBuilder(Directed)
	require.NoError(t, b.AddEdge("A", "C", 1))
	require.NoError(t, b.AddEdge("B", "C", 2))
	require.NoError(t, b.AddEdge("C", "D", 3))
	g, err := b.Build()
	require.NoError(t, err)

	rev := g.Reverse()
	assert.Equal(t, Directed, rev.Kind())
	assert.Equal(t, g.Nodes(), rev.Nodes())
	assert.Equal(t, g.ArcCount(), rev.ArcCount())
	assert.Equal(t, []Edge{{To: "A", Cost: 1}, {To: "B", Cost: 2}}, rev.Neighbors("C"))
	assert.Equal(t, []Edge{{To: "C", Cost: 3}}, rev.Neighbors("D"))
	assert.Nil(t, rev.Neighbors("A"))
}

func TestGraph_NeighborsIsCopy(t *testing.T) {
	b := NewGraphBuilder(Directed)
	require.NoError(t, b.AddEdge("A", "B", 1))
	g, err := b.Build()
	require.NoError(t, err)

	n := g.Neighbors("A")
	n[0].Cost = 100
	c, _ := g.Cost("A", "B")
	assert.Equal(t, 1.0, c)
}

func TestHeuristic(t *testing.T) {
	b := NewGraphBuilder(Undirected)
	require.NoError(t, b.AddEdge("A", "B", 1))
	g, err := b.Build()
	require.NoError(t, err)

	h, err := NewHeuristic(g, map[NodeID]float64{"A": 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, h.Estimate("A"))
	assert.Zero(t, h.Estimate("B"), "missing estimates default to zero")

	h2, err := h.With("B", 7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, h2.Estimate("B"))
	assert.Zero(t, h.Estimate("B"), "With must not modify the receiver")

	_, err = NewHeuristic(g, map[NodeID]float64{"Q": 1})
	assert.ErrorIs(t, err, ErrMalformedProblem)
	_, err = NewHeuristic(g, map[NodeID]float64{"A": -1})
	assert.ErrorIs(t, err, ErrMalformedProblem)
	_, err = h.With("A", math.Inf(1))
	assert.ErrorIs(t, err, ErrMalformedProblem)

	assert.Zero(t, ZeroHeuristic().Estimate("A"))
}

func TestBumps(t *testing.T) {
	f, err := Bumps(Bump{Height: 2, Center: 1, Spread: 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, f(1), 1e-12)
	assert.InDelta(t, 2*math.Exp(-2), f(2), 1e-12)

	_, err = Bumps()
	assert.ErrorIs(t, err, ErrMalformedProblem)
	_, err = Bumps(Bump{Height: 1, Spread: 0})
	assert.ErrorIs(t, err, ErrMalformedProblem)
}
