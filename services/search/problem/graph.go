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

// NodeID is an opaque node label (a city name, a tree node, ...).
type NodeID string

// GraphKind says whether arcs are one-way or must be mirrored.
type GraphKind int

const (
	// Directed graphs accept arcs in any combination.
	Directed GraphKind = iota

	// Undirected graphs require every arc to have a mirror of equal cost.
	Undirected
)

// String returns "directed" or "undirected".
func (k GraphKind) String() string {
	switch k {
	case Directed:
		return "directed"
	case Undirected:
		return "undirected"
	default:
		return "unknown"
	}
}

// Edge is an outgoing arc with a non-negative cost.
type Edge struct {
	To   NodeID
	Cost float64
}

// -----------------------------------------------------------------------------
// Graph
// -----------------------------------------------------------------------------

// Graph is an immutable weighted graph.
//
// Description:
//
//	Nodes keep the order in which they were first declared; each node's
//	outgoing arcs keep the order in which they were declared. Traversal
//	tie-breaking relies on that order.
//
// Thread Safety: Safe for concurrent use (read-only after Build).
type Graph struct {
	kind  GraphKind
	nodes []NodeID
	adj   map[NodeID][]Edge
	arcs  int
}

// Kind returns whether the graph is directed or undirected.
func (g *Graph) Kind() GraphKind {
	return g.kind
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []NodeID {
	out := make([]NodeID, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// ArcCount returns the number of directed arcs. An undirected edge counts twice.
func (g *Graph) ArcCount() int {
	return g.arcs
}

// Has reports whether id was declared.
func (g *Graph) Has(id NodeID) bool {
	_, ok := g.adj[id]
	return ok
}

// Neighbors returns the outgoing arcs of id in declaration order.
//
// Outputs:
//
//	[]Edge - A copy of the arcs. Nil if id is unknown or has no arcs.
func (g *Graph) Neighbors(id NodeID) []Edge {
	edges := g.adj[id]
	if len(edges) == 0 {
		return nil
	}
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// Cost returns the cost of the arc from -> to.
func (g *Graph) Cost(from, to NodeID) (float64, bool) {
	for _, e := range g.adj[from] {
		if e.To == to {
			return e.Cost, true
		}
	}
	return 0, false
}

// PathCost sums the arc costs along path.
//
// Outputs:
//
//	float64 - Total cost. Zero for paths with fewer than two nodes.
//	error - ErrUnknownNode wrapped if two consecutive nodes are not joined by an arc.
func (g *Graph) PathCost(path []NodeID) (float64, error) {
	total := 0.0
	for i := 1; i < len(path); i++ {
		c, ok := g.Cost(path[i-1], path[i])
		if !ok {
			return 0, fmt.Errorf("%w: no arc %s -> %s", ErrUnknownNode, path[i-1], path[i])
		}
		total += c
	}
	return total, nil
}

// Reverse returns a directed graph with every arc flipped.
//
// Description:
//
//	Nodes keep their order. Arcs arriving at a node are listed in the order
//	their sources were declared, then in the source's arc order. For an
//	undirected graph the result has the same arcs as the original.
func (g *Graph) Reverse() *Graph {
	rev := &Graph{
		kind:  Directed,
		nodes: g.Nodes(),
		adj:   make(map[NodeID][]Edge, len(g.nodes)),
		arcs:  g.arcs,
	}
	for _, n := range g.nodes {
		rev.adj[n] = nil
	}
	for _, from := range g.nodes {
		for _, e := range g.adj[from] {
			rev.adj[e.To] = append(rev.adj[e.To], Edge{To: from, Cost: e.Cost})
		}
	}
	return rev
}

// -----------------------------------------------------------------------------
// GraphBuilder
// -----------------------------------------------------------------------------

// GraphBuilder declares a Graph node by node and arc by arc.
//
// Thread Safety: NOT safe for concurrent use.
type GraphBuilder struct {
	kind  GraphKind
	nodes []NodeID
	adj   map[NodeID][]Edge
	built bool
}

// NewGraphBuilder creates a builder for a graph of the given kind.
func NewGraphBuilder(kind GraphKind) *GraphBuilder {
	return &GraphBuilder{
		kind: kind,
		adj:  make(map[NodeID][]Edge),
	}
}

// AddNode declares id. Declaring an existing node is a no-op.
//
// Nodes are also declared implicitly by AddEdge and AddArc; AddNode is only
// needed for isolated nodes or to fix the node order up front.
func (b *GraphBuilder) AddNode(id NodeID) error {
	if b.built {
		return ErrBuilderSealed
	}
	if id == "" {
		return fmt.Errorf("%w: empty node id", ErrMalformedProblem)
	}
	b.ensure(id)
	return nil
}

// AddEdge declares an edge between from and to.
//
// Description:
//
//	For a Directed graph this is a single arc from -> to. For an Undirected
//	graph both arcs are declared, appended to each endpoint's list. Both
//	arcs are checked before either is added, so a failed call leaves the
//	builder unchanged. Repeating an arc with the same cost is a no-op.
//
// Inputs:
//
//	from, to - Endpoints. Must be non-empty and distinct.
//	cost - Non-negative, finite edge cost.
//
// Outputs:
//
//	error - ErrMalformedProblem wrapped on invalid cost, self loop, or an
//	        arc redeclared with a different cost.
func (b *GraphBuilder) AddEdge(from, to NodeID, cost float64) error {
	if b.built {
		return ErrBuilderSealed
	}
	fwdSeen, err := b.checkArc(from, to, cost)
	if err != nil {
		return err
	}
	if b.kind != Undirected {
		b.addArc(from, to, cost, fwdSeen)
		return nil
	}
	backSeen, err := b.checkArc(to, from, cost)
	if err != nil {
		return err
	}
	b.addArc(from, to, cost, fwdSeen)
	b.addArc(to, from, cost, backSeen)
	return nil
}

// AddArc declares the single arc from -> to, whatever the graph kind.
//
// Description:
//
//	Use it to declare an undirected graph as adjacency lists where every
//	edge appears under both endpoints. Symmetry is checked by Build.
//	Repeating an arc with the same cost is a no-op.
func (b *GraphBuilder) AddArc(from, to NodeID, cost float64) error {
	if b.built {
		return ErrBuilderSealed
	}
	seen, err := b.checkArc(from, to, cost)
	if err != nil {
		return err
	}
	b.addArc(from, to, cost, seen)
	return nil
}

// checkArc validates from -> to and reports whether an identical arc is
// already declared.
func (b *GraphBuilder) checkArc(from, to NodeID, cost float64) (bool, error) {
	if from == "" || to == "" {
		return false, fmt.Errorf("%w: empty node id in arc %q -> %q", ErrMalformedProblem, from, to)
	}
	if from == to {
		return false, fmt.Errorf("%w: self loop on %s", ErrMalformedProblem, from)
	}
	if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return false, fmt.Errorf("%w: arc %s -> %s has invalid cost %v", ErrMalformedProblem, from, to, cost)
	}
	for _, e := range b.adj[from] {
		if e.To != to {
			continue
		}
		if e.Cost != cost {
			return false, fmt.Errorf("%w: arc %s -> %s declared with costs %v and %v", ErrMalformedProblem, from, to, e.Cost, cost)
		}
		return true, nil
	}
	return false, nil
}

func (b *GraphBuilder) addArc(from, to NodeID, cost float64, seen bool) {
	if seen {
		return
	}
	b.ensure(from)
	b.ensure(to)
	b.adj[from] = append(b.adj[from], Edge{To: to, Cost: cost})
}

// Build validates the declarations and returns the immutable graph.
//
// Outputs:
//
//	*Graph - The graph.
//	error - ErrMalformedProblem wrapped if an undirected arc has no mirror of
//	        equal cost, or if nothing was declared.
func (b *GraphBuilder) Build() (*Graph, error) {
	if b.built {
		return nil, ErrBuilderSealed
	}
	if len(b.nodes) == 0 {
		return nil, fmt.Errorf("%w: graph has no nodes", ErrMalformedProblem)
	}

	g := &Graph{
		kind:  b.kind,
		nodes: b.nodes,
		adj:   b.adj,
	}
	for _, from := range g.nodes {
		g.arcs += len(g.adj[from])
		if g.kind != Undirected {
			continue
		}
		for _, e := range g.adj[from] {
			back, ok := g.Cost(e.To, from)
			if !ok {
				return nil, fmt.Errorf("%w: asymmetric edge %s -> %s has no mirror", ErrMalformedProblem, from, e.To)
			}
			if back != e.Cost {
				return nil, fmt.Errorf("%w: edge %s <-> %s has costs %v and %v", ErrMalformedProblem, from, e.To, e.Cost, back)
			}
		}
	}

	b.built = true
	return g, nil
}

func (b *GraphBuilder) ensure(id NodeID) {
	if _, ok := b.adj[id]; ok {
		return
	}
	b.nodes = append(b.nodes, id)
	b.adj[id] = nil
}
