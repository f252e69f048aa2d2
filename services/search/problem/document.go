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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document kinds.
const (
	KindGraph     = "graph"
	KindCSP       = "csp"
	KindGame      = "game"
	KindObjective = "objective"
)

// Document is the declarative, human-readable form of a problem.
//
// Description:
//
//	A YAML file with one declaration per line:
//
//	  kind: graph
//	  directed: false
//	  start: Arad
//	  goal: Bucharest
//	  edges:
//	    - Arad Sibiu 140
//	    - Arad Timisoara 118
//	  heuristic:
//	    Arad: 366
//
//	  kind: csp
//	  variables:
//	    - name: AI
//	      domain: ["Mon 9AM|Room 101", "Mon 9AM|Room 102"]
//	  constraints:
//	    - distinct AI Database
//	    - prof-AI-Database = distinct_field 0 AI Database
//
//	  kind: game
//	  root: A
//	  nodes:
//	    - A max B C
//	    - B min D E
//	    - D terminal 3
//
//	  kind: objective
//	  start: "1.0"
//	  step: 0.1
//	  bumps:
//	    - 2 2.8 0.8   # height center spread
type Document struct {
	Kind string `yaml:"kind"`

	// Graph documents.
	Directed  bool               `yaml:"directed"`
	Edges     []string           `yaml:"edges"`
	Heuristic map[string]float64 `yaml:"heuristic"`

	// Start and goal of a graph search. For objectives, Start is parsed as a number.
	Start string `yaml:"start"`
	Goal  string `yaml:"goal"`

	// CSP documents.
	Variables   []VariableSpec `yaml:"variables"`
	Constraints []string       `yaml:"constraints"`

	// Game documents.
	Root  string   `yaml:"root"`
	Nodes []string `yaml:"nodes"`

	// Objective documents.
	Bumps []string `yaml:"bumps"`
	Step  float64  `yaml:"step"`
}

// VariableSpec declares one CSP variable.
type VariableSpec struct {
	Name   string   `yaml:"name"`
	Domain []string `yaml:"domain"`
}

// ParseDocument decodes a YAML problem document. Unknown fields are rejected.
func ParseDocument(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrUnsupportedDocument)
		}
		return nil, fmt.Errorf("parse problem document: %w", err)
	}
	switch doc.Kind {
	case KindGraph, KindCSP, KindGame, KindObjective:
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedDocument, doc.Kind)
	}
	return &doc, nil
}

// LoadDocument reads and parses the document at path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem document: %w", err)
	}
	return ParseDocument(data)
}

// Graph builds the graph declared by a graph document.
func (d *Document) Graph() (*Graph, error) {
	if err := d.expect(KindGraph); err != nil {
		return nil, err
	}
	kind := Undirected
	if d.Directed {
		kind = Directed
	}
	b := NewGraphBuilder(kind)
	for i, line := range d.Edges {
		f := strings.Fields(line)
		if len(f) != 3 {
			return nil, fmt.Errorf("%w: edge %d %q: want \"from to cost\"", ErrMalformedProblem, i+1, line)
		}
		cost, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: edge %d %q: %v", ErrMalformedProblem, i+1, line, err)
		}
		if err := b.AddEdge(NodeID(f[0]), NodeID(f[1]), cost); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i+1, err)
		}
	}
	return b.Build()
}

// HeuristicFor builds the heuristic table of a graph document against g.
func (d *Document) HeuristicFor(g *Graph) (Heuristic, error) {
	if err := d.expect(KindGraph); err != nil {
		return Heuristic{}, err
	}
	est := make(map[NodeID]float64, len(d.Heuristic))
	for k, v := range d.Heuristic {
		est[NodeID(k)] = v
	}
	return NewHeuristic(g, est)
}

// CSP builds the CSP declared by a csp document.
//
// Constraint lines read "[name =] distinct X Y" or
// "[name =] distinct_field N X Y". Unnamed constraints are named after
// their operator and scope, e.g. "distinct(AI,OS)".
func (d *Document) CSP() (*CSP, error) {
	if err := d.expect(KindCSP); err != nil {
		return nil, err
	}
	b := NewCSPBuilder()
	for _, v := range d.Variables {
		domain := make([]Value, len(v.Domain))
		for i, s := range v.Domain {
			domain[i] = Value(s)
		}
		if err := b.AddVariable(Variable(v.Name), domain...); err != nil {
			return nil, err
		}
	}
	for i, line := range d.Constraints {
		c, err := parseConstraint(line)
		if err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i+1, err)
		}
		if err := b.AddConstraint(c); err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i+1, err)
		}
	}
	return b.Build()
}

// GameTree builds the tree declared by a game document.
//
// Node lines read "ID max|min CHILD..." or "ID terminal VALUE". Children
// may be declared on later lines.
func (d *Document) GameTree() (*GameTree, error) {
	if err := d.expect(KindGame); err != nil {
		return nil, err
	}
	b := NewGameTreeBuilder()
	children := make([][]string, len(d.Nodes))
	ids := make([]NodeID, len(d.Nodes))
	for i, line := range d.Nodes {
		f := strings.Fields(line)
		if len(f) < 2 {
			return nil, fmt.Errorf("%w: node %d %q: want \"id type ...\"", ErrMalformedProblem, i+1, line)
		}
		ids[i] = NodeID(f[0])
		var err error
		switch strings.ToLower(f[1]) {
		case "max":
			err = b.AddMax(ids[i])
			children[i] = f[2:]
		case "min":
			err = b.AddMin(ids[i])
			children[i] = f[2:]
		case "terminal", "term":
			if len(f) != 3 {
				return nil, fmt.Errorf("%w: node %d %q: want \"id terminal value\"", ErrMalformedProblem, i+1, line)
			}
			v, perr := strconv.ParseFloat(f[2], 64)
			if perr != nil {
				return nil, fmt.Errorf("%w: node %d %q: %v", ErrMalformedProblem, i+1, line, perr)
			}
			err = b.AddTerminal(ids[i], v)
		default:
			return nil, fmt.Errorf("%w: node %d %q: unknown type %q", ErrMalformedProblem, i+1, line, f[1])
		}
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i+1, err)
		}
	}
	for i, kids := range children {
		for _, c := range kids {
			if err := b.AddChild(ids[i], NodeID(c)); err != nil {
				return nil, fmt.Errorf("node %d: %w", i+1, err)
			}
		}
	}
	return b.Build()
}

// Objective builds the function declared by an objective document, and
// returns the declared start position and step size.
func (d *Document) Objective() (Objective, float64, float64, error) {
	if err := d.expect(KindObjective); err != nil {
		return nil, 0, 0, err
	}
	bumps := make([]Bump, 0, len(d.Bumps))
	for i, line := range d.Bumps {
		f := strings.Fields(line)
		if len(f) != 3 {
			return nil, 0, 0, fmt.Errorf("%w: bump %d %q: want \"height center spread\"", ErrMalformedProblem, i+1, line)
		}
		var nums [3]float64
		for j := range nums {
			v, err := strconv.ParseFloat(f[j], 64)
			if err != nil {
				return nil, 0, 0, fmt.Errorf("%w: bump %d %q: %v", ErrMalformedProblem, i+1, line, err)
			}
			nums[j] = v
		}
		bumps = append(bumps, Bump{Height: nums[0], Center: nums[1], Spread: nums[2]})
	}
	obj, err := Bumps(bumps...)
	if err != nil {
		return nil, 0, 0, err
	}
	start := 0.0
	if d.Start != "" {
		start, err = strconv.ParseFloat(d.Start, 64)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("%w: start %q: %v", ErrMalformedProblem, d.Start, err)
		}
	}
	return obj, start, d.Step, nil
}

func (d *Document) expect(kind string) error {
	if d.Kind != kind {
		return fmt.Errorf("%w: document is %q, not %q", ErrUnsupportedDocument, d.Kind, kind)
	}
	return nil
}

func parseConstraint(line string) (Constraint, error) {
	name := ""
	body := line
	if i := strings.Index(line, "="); i >= 0 {
		name = strings.TrimSpace(line[:i])
		body = line[i+1:]
	}
	f := strings.Fields(body)
	if len(f) == 0 {
		return Constraint{}, fmt.Errorf("%w: empty constraint", ErrMalformedProblem)
	}
	switch f[0] {
	case "distinct":
		if len(f) != 3 {
			return Constraint{}, fmt.Errorf("%w: %q: want \"distinct X Y\"", ErrMalformedProblem, line)
		}
		if name == "" {
			name = fmt.Sprintf("distinct(%s,%s)", f[1], f[2])
		}
		return Distinct(name, Variable(f[1]), Variable(f[2])), nil
	case "distinct_field":
		if len(f) != 4 {
			return Constraint{}, fmt.Errorf("%w: %q: want \"distinct_field N X Y\"", ErrMalformedProblem, line)
		}
		field, err := strconv.Atoi(f[1])
		if err != nil || field < 0 {
			return Constraint{}, fmt.Errorf("%w: %q: bad field index %q", ErrMalformedProblem, line, f[1])
		}
		if name == "" {
			name = fmt.Sprintf("distinct_field%d(%s,%s)", field, f[2], f[3])
		}
		return DistinctField(name, field, Variable(f[2]), Variable(f[3])), nil
	default:
		return Constraint{}, fmt.Errorf("%w: %q: unknown operator %q", ErrMalformedProblem, line, f[0])
	}
}
