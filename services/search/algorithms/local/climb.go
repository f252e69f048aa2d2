// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package local implements hill climbing on a one-dimensional objective.
package local

import (
	"math"
	"strconv"

	"github.com/AleutianAI/searchtrace/services/search/algorithms"
	"github.com/AleutianAI/searchtrace/services/search/problem"
	"github.com/AleutianAI/searchtrace/services/search/trace"
)

// Name is the algorithm name recorded in traces.
const Name = "hill_climbing"

// DefaultMaxSteps bounds an ascent when Config.MaxSteps is zero.
const DefaultMaxSteps = 1000

// Neighbour labels.
const (
	LabelCurrent = "current"
	LabelLeft    = "left"
	LabelRight   = "right"
)

// Config parameterises a climb.
type Config struct {
	// Start is the initial position.
	Start float64

	// StepSize is the distance to each neighbour. Must be positive.
	StepSize float64

	// MaxSteps bounds the number of moves. Zero means DefaultMaxSteps.
	MaxSteps int

	// Lower and Upper bound the positions considered. Lower == Upper
	// disables the bounds.
	Lower float64
	Upper float64

	// Minimize descends instead of ascending.
	Minimize bool
}

func (c Config) bounded() bool {
	return c.Lower != c.Upper
}

func (c Config) inBounds(x float64) bool {
	return !c.bounded() || (x >= c.Lower && x <= c.Upper)
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.Start) || math.IsInf(c.Start, 0):
		return algorithms.Invalid(Name, "Validate", algorithms.ErrInvalidConfig, "start %v is not finite", c.Start)
	case !(c.StepSize > 0) || math.IsInf(c.StepSize, 0):
		return algorithms.Invalid(Name, "Validate", algorithms.ErrInvalidConfig, "step size %v must be positive and finite", c.StepSize)
	case c.MaxSteps < 0:
		return algorithms.Invalid(Name, "Validate", algorithms.ErrInvalidConfig, "max steps %d is negative", c.MaxSteps)
	case c.bounded() && c.Lower > c.Upper:
		return algorithms.Invalid(Name, "Validate", algorithms.ErrInvalidConfig, "lower bound %v above upper bound %v", c.Lower, c.Upper)
	case !c.inBounds(c.Start):
		return algorithms.Invalid(Name, "Validate", algorithms.ErrInvalidConfig, "start %v outside [%v, %v]", c.Start, c.Lower, c.Upper)
	}
	return nil
}

// Result summarises a climb.
type Result struct {
	// Outcome is LocalOptimum or StepLimit.
	Outcome trace.Outcome

	// X and Value are the final position and its objective value.
	X     float64
	Value float64

	// Path lists every position held, start included.
	Path []float64

	// Steps is the number of moves made.
	Steps int
}

// Climb runs hill climbing on f.
//
// Description:
//
//	Positions are Start + k*StepSize for integer k, so a run never
//	accumulates floating point drift and repeated runs are bit-identical.
//	Each iteration emits Evaluate for the current position and both
//	neighbours (labelled current, left, right; out-of-bounds neighbours are
//	skipped). A strictly improving neighbour is taken, the better one if
//	both improve and the left one on a tie, and Visit is emitted. When no
//	neighbour improves LocalOptimum is emitted: the climber has no way to
//	know whether it is also the global optimum. Hitting MaxSteps emits
//	Exhausted and yields OutcomeStepLimit.
//
// Inputs:
//
//	f - The objective. Must not be nil.
//	cfg - Start, step size and limits.
//	rec - Recorder receiving the events. Must not be nil.
//
// Outputs:
//
//	Result - The final position and outcome.
//	error - *algorithms.AlgorithmError for an invalid invocation.
//
// Thread Safety: Safe for concurrent use with distinct recorders.
func Climb(f problem.Objective, cfg Config, rec *trace.Recorder) (Result, error) {
	if f == nil || rec == nil {
		return Result{}, algorithms.Invalid(Name, "Climb", algorithms.ErrInvalidInput, "objective and recorder are required")
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	maxSteps := cfg.MaxSteps
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}

	better := func(a, b float64) bool { return a > b }
	if cfg.Minimize {
		better = func(a, b float64) bool { return a < b }
	}
	pos := func(k int) float64 { return cfg.Start + float64(k)*cfg.StepSize }

	k := 0
	x, fx := pos(0), f(pos(0))
	res := Result{Path: []float64{x}}

	for step := 0; ; step++ {
		evaluate(rec, LabelCurrent, x, fx, step)

		bestK, bestX, bestF, bestLabel := k, x, fx, ""
		for _, n := range []struct {
			k     int
			label string
		}{{k - 1, LabelLeft}, {k + 1, LabelRight}} {
			nx := pos(n.k)
			if !cfg.inBounds(nx) {
				continue
			}
			nf := f(nx)
			evaluate(rec, n.label, nx, nf, step)
			if better(nf, bestF) {
				bestK, bestX, bestF, bestLabel = n.k, nx, nf, n.label
			}
		}

		if bestLabel == "" {
			res.Outcome = trace.OutcomeLocalOptimum
			res.X, res.Value = x, fx
			rec.Emit(trace.NewEvent(trace.KindLocalOptimum).
				With(trace.MetricX, x).
				With(trace.MetricValue, fx).
				With(trace.MetricStep, float64(res.Steps)))
			return res, nil
		}

		if res.Steps == maxSteps {
			res.Outcome = trace.OutcomeStepLimit
			res.X, res.Value = x, fx
			rec.Emit(trace.NewEvent(trace.KindExhausted).
				With(trace.MetricX, x).
				With(trace.MetricValue, fx).
				With(trace.MetricStep, float64(res.Steps)).
				Label("step_limit=" + strconv.Itoa(maxSteps)))
			return res, nil
		}

		k, x, fx = bestK, bestX, bestF
		res.Steps++
		res.Path = append(res.Path, x)
		rec.Emit(trace.NewEvent(trace.KindVisit).
			With(trace.MetricX, x).
			With(trace.MetricValue, fx).
			With(trace.MetricStep, float64(res.Steps)).
			Label(bestLabel))
	}
}

func evaluate(rec *trace.Recorder, label string, x, fx float64, step int) {
	rec.Emit(trace.NewEvent(trace.KindEvaluate).
		With(trace.MetricX, x).
		With(trace.MetricValue, fx).
		With(trace.MetricStep, float64(step)).
		Label(label))
}
