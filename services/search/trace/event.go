// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package trace records the decisions a search algorithm makes.
//
// A Trace is the only contract between the search algorithms and anything
// that consumes their behaviour (renderers, tests, the CLI). Each algorithm
// appends typed Events to a Recorder while it runs; events are immutable
// once recorded and carry a sequence number that increases by one per event.
//
// Serialised form of one event:
//
//	{"sequence": 3, "kind": "expand", "node": "Sibiu",
//	 "metrics": {"g": 140, "h": 253, "f": 393}, "auxiliary": ["parent=Arad"]}
//
// "node" is null when the event has no subject. Infinite metric values
// (an open alpha/beta window) are written as the strings "+Inf" and "-Inf".
package trace

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
)

// -----------------------------------------------------------------------------
// Kind
// -----------------------------------------------------------------------------

// Kind discriminates trace events.
type Kind int

const (
	// KindVisit marks a node taken off a traversal frontier, or a move of
	// the local search to a new position.
	KindVisit Kind = iota + 1

	// KindExpand marks an A* node popped from the priority frontier.
	KindExpand

	// KindFrontierUpdate marks a node added to (or re-keyed in) a frontier.
	KindFrontierUpdate

	// KindAssign marks a tentative CSP assignment.
	KindAssign

	// KindConflictDetected marks a tentative assignment violating a constraint.
	KindConflictDetected

	// KindBacktrack marks a variable whose every value failed.
	KindBacktrack

	// KindEvaluate marks an objective or game-tree evaluation.
	KindEvaluate

	// KindPrune marks a game-tree subtree skipped by alpha-beta.
	KindPrune

	// KindGoalReached marks a search reaching its goal.
	KindGoalReached

	// KindExhausted marks a search running out of options.
	KindExhausted

	// KindSolutionFound marks a complete, consistent CSP assignment.
	KindSolutionFound

	// KindLocalOptimum marks local search stopping where no neighbour
	// improves. It is distinct from KindGoalReached: the climber has no
	// knowledge of the global optimum.
	KindLocalOptimum
)

var kindNames = map[Kind]string{
	KindVisit:            "visit",
	KindExpand:           "expand",
	KindFrontierUpdate:   "frontier_update",
	KindAssign:           "assign",
	KindConflictDetected: "conflict_detected",
	KindBacktrack:        "backtrack",
	KindEvaluate:         "evaluate",
	KindPrune:            "prune",
	KindGoalReached:      "goal_reached",
	KindExhausted:        "exhausted",
	KindSolutionFound:    "solution_found",
	KindLocalOptimum:     "local_optimum",
}

// Kinds returns every event kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := KindVisit; k <= KindLocalOptimum; k++ {
		out = append(out, k)
	}
	return out
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// MarshalJSON encodes the kind as its name.
func (k Kind) MarshalJSON() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("cannot encode event kind %d", int(k))
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// -----------------------------------------------------------------------------
// Subject
// -----------------------------------------------------------------------------

// Subject is the optional node or variable an event is about.
type Subject struct {
	ID    string
	Valid bool
}

// NoSubject is the absent subject.
var NoSubject = Subject{}

// SubjectOf returns a present subject.
func SubjectOf(id string) Subject {
	return Subject{ID: id, Valid: true}
}

// String returns the id, or "-" when absent.
func (s Subject) String() string {
	if !s.Valid {
		return "-"
	}
	return s.ID
}

// MarshalJSON encodes the id, or null when absent.
func (s Subject) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.ID)
}

// UnmarshalJSON decodes an id or null.
func (s *Subject) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NoSubject
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*s = SubjectOf(id)
	return nil
}

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

// Well-known metric names.
const (
	MetricG            = "g"
	MetricH            = "h"
	MetricF            = "f"
	MetricCost         = "cost"
	MetricDepth        = "depth"
	MetricFrontierSize = "frontier_size"
	MetricExplored     = "explored"
	MetricAlpha        = "alpha"
	MetricBeta         = "beta"
	MetricValue        = "value"
	MetricX            = "x"
	MetricStep         = "step"
)

// Metrics holds the algorithm's named numeric state at the time of an event.
type Metrics map[string]float64

// MarshalJSON encodes the map (nil as {}), writing non-finite values as
// "+Inf", "-Inf" or "NaN".
func (m Metrics) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch {
		case math.IsInf(v, 1):
			out[k] = "+Inf"
		case math.IsInf(v, -1):
			out[k] = "-Inf"
		case math.IsNaN(v):
			out[k] = "NaN"
		default:
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts numbers and the strings written by MarshalJSON.
func (m *Metrics) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*m = nil
		return nil
	}
	out := make(Metrics, len(raw))
	for k, v := range raw {
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			out[k] = f
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("metric %s: %w", k, err)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("metric %s: %w", k, err)
		}
		out[k] = f
	}
	*m = out
	return nil
}

// -----------------------------------------------------------------------------
// Event
// -----------------------------------------------------------------------------

// Event is one recorded decision.
type Event struct {
	// Sequence is the 1-indexed position in the trace (assigned by the recorder).
	Sequence int `json:"sequence"`

	// Kind discriminates the event.
	Kind Kind `json:"kind"`

	// Subject is the node or variable involved, if any.
	Subject Subject `json:"node"`

	// Metrics are the algorithm's numeric state at this instant.
	Metrics Metrics `json:"metrics"`

	// Labels are free-form annotations (values tried, constraint names, paths).
	Labels []string `json:"auxiliary"`
}

// Metric returns a metric value and whether it is present.
func (e Event) Metric(name string) (float64, bool) {
	v, ok := e.Metrics[name]
	return v, ok
}

// HasLabel reports whether label is attached to the event.
func (e Event) HasLabel(label string) bool {
	return slices.Contains(e.Labels, label)
}

func (e Event) clone() Event {
	if e.Metrics != nil {
		m := make(Metrics, len(e.Metrics))
		for k, v := range e.Metrics {
			m[k] = v
		}
		e.Metrics = m
	}
	e.Labels = slices.Clone(e.Labels)
	return e
}

// -----------------------------------------------------------------------------
// EventBuilder
// -----------------------------------------------------------------------------

// EventBuilder helps construct Event instances.
type EventBuilder struct {
	event Event
}

// NewEvent starts an event of the given kind.
func NewEvent(kind Kind) *EventBuilder {
	return &EventBuilder{event: Event{Kind: kind}}
}

// On sets the subject.
func (b *EventBuilder) On(id string) *EventBuilder {
	b.event.Subject = SubjectOf(id)
	return b
}

// With sets a metric.
func (b *EventBuilder) With(name string, v float64) *EventBuilder {
	if b.event.Metrics == nil {
		b.event.Metrics = make(Metrics)
	}
	b.event.Metrics[name] = v
	return b
}

// Label appends labels.
func (b *EventBuilder) Label(labels ...string) *EventBuilder {
	b.event.Labels = append(b.event.Labels, labels...)
	return b
}

// Build returns the constructed Event.
func (b *EventBuilder) Build() Event {
	return b.event.clone()
}
