// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Outcome
// -----------------------------------------------------------------------------

// Outcome is how a search run ended. None of these is an error: callers
// branch on the outcome explicitly.
type Outcome string

const (
	// OutcomeGoalReached: a traversal or A* reached its goal.
	OutcomeGoalReached Outcome = "goal_reached"

	// OutcomeSolutionFound: the CSP solver found a complete assignment.
	OutcomeSolutionFound Outcome = "solution_found"

	// OutcomeLocalOptimum: hill climbing stopped where no neighbour improves.
	OutcomeLocalOptimum Outcome = "local_optimum"

	// OutcomeEvaluated: a game tree was evaluated to a root value.
	OutcomeEvaluated Outcome = "evaluated"

	// OutcomeExhausted: the traversal frontier or the CSP search space ran out.
	OutcomeExhausted Outcome = "exhausted"

	// OutcomeUnreachable: A* emptied its frontier before reaching the goal.
	OutcomeUnreachable Outcome = "unreachable"

	// OutcomeStepLimit: hill climbing used up its step budget while still improving.
	OutcomeStepLimit Outcome = "step_limit"
)

// Succeeded reports whether the outcome is a normal termination of the
// method (goal, solution, local optimum or evaluation).
func (o Outcome) Succeeded() bool {
	switch o {
	case OutcomeGoalReached, OutcomeSolutionFound, OutcomeLocalOptimum, OutcomeEvaluated:
		return true
	default:
		return false
	}
}

// -----------------------------------------------------------------------------
// Trace
// -----------------------------------------------------------------------------

// Trace is the exportable record of one search run.
type Trace struct {
	// RunID identifies the run.
	RunID string `json:"run_id"`

	// Algorithm names the procedure that produced the events.
	Algorithm string `json:"algorithm"`

	// Outcome is how the run ended.
	Outcome Outcome `json:"outcome"`

	// Events are the recorded decisions in sequence order.
	Events []Event `json:"events"`
}

// Count returns the number of events of the given kind.
func (t Trace) Count(kind Kind) int {
	n := 0
	for _, e := range t.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Filter returns the events of the given kind, in order.
func (t Trace) Filter(kind Kind) []Event {
	var out []Event
	for _, e := range t.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Encode writes the trace as indented JSON.
func (t Trace) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// Decode reads a trace written by Encode and checks its sequence numbers.
func Decode(r io.Reader) (Trace, error) {
	var t Trace
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return Trace{}, fmt.Errorf("decode trace: %w", err)
	}
	for i, e := range t.Events {
		if e.Sequence != i+1 {
			return Trace{}, fmt.Errorf("decode trace: event %d has sequence %d", i+1, e.Sequence)
		}
	}
	return t, nil
}

// -----------------------------------------------------------------------------
// Recorder
// -----------------------------------------------------------------------------

// Recorder is the append-only event log of one search run.
//
// Description:
//
//	An algorithm emits each decision to the recorder; the recorder assigns
//	sequence numbers starting at 1 and never rewrites or drops an event.
//	Use one recorder per run. Events are copied in and out, so nothing a
//	caller does to a returned event affects the log.
//
// Thread Safety: Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	next   int
	hooks  []func(Event)
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithHook calls fn with every event right after it is recorded. Hooks run
// on the emitting goroutine while the recorder lock is held, so they must
// not call back into the recorder.
func WithHook(fn func(Event)) RecorderOption {
	return func(r *Recorder) {
		if fn != nil {
			r.hooks = append(r.hooks, fn)
		}
	}
}

// NewRecorder creates an empty recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		events: make([]Event, 0, 32),
		next:   1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends e and returns it with its sequence number assigned.
//
// Inputs:
//
//	e - The event. Its Sequence field is overwritten.
//
// Thread Safety: Safe for concurrent use.
func (r *Recorder) Record(e Event) Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	e = e.clone()
	e.Sequence = r.next
	r.next++
	r.events = append(r.events, e)

	for _, h := range r.hooks {
		h(e.clone())
	}
	return e.clone()
}

// Emit records the event under construction in b.
func (r *Recorder) Emit(b *EventBuilder) Event {
	return r.Record(b.Build())
}

// Events returns a copy of all recorded events in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	for i, e := range r.events {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Last returns the most recent event, if any.
func (r *Recorder) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1].clone(), true
}

// Export returns the trace in exportable form under a fresh run id.
//
// Inputs:
//
//	algorithm - Name of the algorithm that produced the events.
//	outcome - How the run ended.
func (r *Recorder) Export(algorithm string, outcome Outcome) Trace {
	return Trace{
		RunID:     uuid.NewString(),
		Algorithm: algorithm,
		Outcome:   outcome,
		Events:    r.Events(),
	}
}
