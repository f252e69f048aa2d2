// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package constraints implements chronological backtracking for CSPs.
package constraints

import (
	"github.com/AleutianAI/searchtrace/services/search/algorithms"
	"github.com/AleutianAI/searchtrace/services/search/problem"
	"github.com/AleutianAI/searchtrace/services/search/trace"
)

// Name is the algorithm name recorded in traces.
const Name = "backtracking"

// Metric names specific to the solver.
const (
	MetricAssignments = "assignments"
	MetricConflicts   = "conflicts"
	MetricBacktracks  = "backtracks"
)

// Result summarises a solver run.
type Result struct {
	// Outcome is SolutionFound or Exhausted.
	Outcome trace.Outcome

	// Assignment is the complete solution, nil when exhausted.
	Assignment *problem.Assignment

	// Assignments counts tentative assignments (Assign events).
	Assignments int

	// Conflicts counts ConflictDetected events.
	Conflicts int

	// Backtracks counts Backtrack events.
	Backtracks int
}

type solver struct {
	csp  *problem.CSP
	vars []problem.Variable
	rec  *trace.Recorder
	a    *problem.Assignment
	res  Result
}

// Solve searches for an assignment satisfying every constraint of p.
//
// Description:
//
//	Variables are taken in declaration order and their values tried in
//	domain order. Each tentative value emits Assign; the constraints whose
//	scope contains the variable are then checked in declaration order and
//	the first violated one emits ConflictDetected naming it, after which the
//	value is undone. A variable whose values all fail emits Backtrack and
//	control returns to the previous variable. A complete consistent
//	assignment emits SolutionFound; failure of the first variable emits
//	Exhausted.
//
// Inputs:
//
//	p - The CSP. Must not be nil.
//	rec - Recorder receiving the events. Must not be nil.
//
// Outputs:
//
//	Result - The outcome, solution and counters.
//	error - *algorithms.AlgorithmError for an invalid invocation.
//
// Thread Safety: Safe for concurrent use with distinct recorders.
func Solve(p *problem.CSP, rec *trace.Recorder) (Result, error) {
	if p == nil || rec == nil {
		return Result{}, algorithms.Invalid(Name, "Solve", algorithms.ErrInvalidInput, "CSP and recorder are required")
	}

	s := &solver{
		csp:  p,
		vars: p.Variables(),
		rec:  rec,
		a:    problem.NewAssignment(),
	}

	if s.assign(0) {
		s.res.Outcome = trace.OutcomeSolutionFound
		s.res.Assignment = s.a.Clone()

		found := trace.NewEvent(trace.KindSolutionFound)
		for _, v := range s.a.Variables() {
			val, _ := s.a.Get(v)
			found.Label(string(v) + "=" + string(val))
		}
		rec.Emit(s.counters(found))
		return s.res, nil
	}

	s.res.Outcome = trace.OutcomeExhausted
	rec.Emit(s.counters(trace.NewEvent(trace.KindExhausted)))
	return s.res, nil
}

// assign tries every value of variable i and recurses. It reports whether
// a complete consistent assignment was reached.
func (s *solver) assign(i int) bool {
	if i == len(s.vars) {
		return true
	}
	v := s.vars[i]
	depth := float64(i + 1)

	for _, val := range s.csp.Domain(v) {
		// Assign cannot fail: v is unbound at this depth.
		_ = s.a.Assign(v, val)
		s.res.Assignments++
		s.rec.Emit(trace.NewEvent(trace.KindAssign).
			On(string(v)).
			With(trace.MetricDepth, depth).
			With(MetricAssignments, float64(s.res.Assignments)).
			Label(string(val)))

		if c := s.violated(v); c != nil {
			s.res.Conflicts++
			s.rec.Emit(trace.NewEvent(trace.KindConflictDetected).
				On(string(v)).
				With(trace.MetricDepth, depth).
				With(MetricConflicts, float64(s.res.Conflicts)).
				Label(string(val), c.Name))
			s.a.Unassign(v)
			continue
		}

		if s.assign(i + 1) {
			return true
		}
		s.a.Unassign(v)
	}

	s.res.Backtracks++
	s.rec.Emit(trace.NewEvent(trace.KindBacktrack).
		On(string(v)).
		With(trace.MetricDepth, depth).
		With(MetricBacktracks, float64(s.res.Backtracks)))
	return false
}

// violated returns the first constraint on v, in declaration order, that
// the current assignment violates.
func (s *solver) violated(v problem.Variable) *problem.Constraint {
	for _, c := range s.csp.ConstraintsOn(v) {
		if c.Evaluate(s.a) == problem.Violated {
			return &c
		}
	}
	return nil
}

func (s *solver) counters(b *trace.EventBuilder) *trace.EventBuilder {
	return b.
		With(MetricAssignments, float64(s.res.Assignments)).
		With(MetricConflicts, float64(s.res.Conflicts)).
		With(MetricBacktracks, float64(s.res.Backtracks))
}
