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
	"slices"
)

// NodeType tags a game-tree node.
type NodeType int

const (
	// Terminal nodes carry a fixed value and have no children.
	Terminal NodeType = iota

	// Max nodes take the maximum of their children.
	Max

	// Min nodes take the minimum of their children.
	Min
)

// String returns "MAX", "MIN" or "TERMINAL".
func (t NodeType) String() string {
	switch t {
	case Max:
		return "MAX"
	case Min:
		return "MIN"
	case Terminal:
		return "TERMINAL"
	default:
		return "UNKNOWN"
	}
}

// GameNode is one node of a game tree.
type GameNode struct {
	ID       NodeID
	Type     NodeType
	Value    float64 // Only meaningful for Terminal nodes.
	Children []NodeID
}

// GameTree is an immutable, acyclic, finite game tree (or forest).
//
// Thread Safety: Safe for concurrent use (read-only after Build).
type GameTree struct {
	order []NodeID
	nodes map[NodeID]GameNode
}

// Node returns the node with the given id.
func (t *GameTree) Node(id NodeID) (GameNode, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return GameNode{}, false
	}
	n.Children = slices.Clone(n.Children)
	return n, true
}

// Children returns id's children in declaration order.
func (t *GameTree) Children(id NodeID) []NodeID {
	return slices.Clone(t.nodes[id].Children)
}

// Nodes returns all node ids in declaration order.
func (t *GameTree) Nodes() []NodeID {
	return slices.Clone(t.order)
}

// Len returns the number of nodes.
func (t *GameTree) Len() int {
	return len(t.order)
}

// Subtree returns id and all its descendants in pre-order.
func (t *GameTree) Subtree(id NodeID) []NodeID {
	if _, ok := t.nodes[id]; !ok {
		return nil
	}
	out := []NodeID{id}
	for _, c := range t.nodes[id].Children {
		out = append(out, t.Subtree(c)...)
	}
	return out
}

// GameTreeBuilder declares a GameTree.
//
// Thread Safety: NOT safe for concurrent use.
type GameTreeBuilder struct {
	order  []NodeID
	nodes  map[NodeID]*GameNode
	parent map[NodeID]NodeID
	built  bool
}

// NewGameTreeBuilder creates an empty builder.
func NewGameTreeBuilder() *GameTreeBuilder {
	return &GameTreeBuilder{
		nodes:  make(map[NodeID]*GameNode),
		parent: make(map[NodeID]NodeID),
	}
}

// AddMax declares a MAX node.
func (b *GameTreeBuilder) AddMax(id NodeID) error {
	return b.add(GameNode{ID: id, Type: Max})
}

// AddMin declares a MIN node.
func (b *GameTreeBuilder) AddMin(id NodeID) error {
	return b.add(GameNode{ID: id, Type: Min})
}

// AddTerminal declares a TERMINAL node with a finite value.
func (b *GameTreeBuilder) AddTerminal(id NodeID, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: terminal %s has value %v", ErrMalformedProblem, id, value)
	}
	return b.add(GameNode{ID: id, Type: Terminal, Value: value})
}

// AddChild appends child to parent's ordered children.
//
// Description:
//
//	Both nodes must be declared. Terminal nodes cannot have children, a node
//	can only have one parent, and an edge that would close a cycle is
//	rejected.
func (b *GameTreeBuilder) AddChild(parent, child NodeID) error {
	if b.built {
		return ErrBuilderSealed
	}
	p, ok := b.nodes[parent]
	if !ok {
		return fmt.Errorf("%w: %w: parent %s", ErrMalformedProblem, ErrUnknownNode, parent)
	}
	if _, ok := b.nodes[child]; !ok {
		return fmt.Errorf("%w: %w: child %s", ErrMalformedProblem, ErrUnknownNode, child)
	}
	if p.Type == Terminal {
		return fmt.Errorf("%w: terminal %s cannot have children", ErrMalformedProblem, parent)
	}
	if prev, ok := b.parent[child]; ok {
		return fmt.Errorf("%w: %s already has parent %s", ErrMalformedProblem, child, prev)
	}
	for a, ok := parent, true; ok; a, ok = b.parent[a] {
		if a == child {
			return fmt.Errorf("%w: edge %s -> %s creates a cycle", ErrMalformedProblem, parent, child)
		}
	}
	p.Children = append(p.Children, child)
	b.parent[child] = parent
	return nil
}

// Build validates and returns the immutable tree.
//
// Outputs:
//
//	*GameTree - The tree.
//	error - ErrMalformedProblem wrapped if empty or if a MAX/MIN node has no children.
func (b *GameTreeBuilder) Build() (*GameTree, error) {
	if b.built {
		return nil, ErrBuilderSealed
	}
	if len(b.order) == 0 {
		return nil, fmt.Errorf("%w: game tree has no nodes", ErrMalformedProblem)
	}
	t := &GameTree{
		order: b.order,
		nodes: make(map[NodeID]GameNode, len(b.nodes)),
	}
	for _, id := range b.order {
		n := b.nodes[id]
		if n.Type != Terminal && len(n.Children) == 0 {
			return nil, fmt.Errorf("%w: %s node %s has no children", ErrMalformedProblem, n.Type, id)
		}
		t.nodes[id] = *n
	}
	b.built = true
	return t, nil
}

func (b *GameTreeBuilder) add(n GameNode) error {
	if b.built {
		return ErrBuilderSealed
	}
	if n.ID == "" {
		return fmt.Errorf("%w: empty node id", ErrMalformedProblem)
	}
	if _, dup := b.nodes[n.ID]; dup {
		return fmt.Errorf("%w: node %s declared twice", ErrMalformedProblem, n.ID)
	}
	b.order = append(b.order, n.ID)
	b.nodes[n.ID] = &n
	return nil
}
