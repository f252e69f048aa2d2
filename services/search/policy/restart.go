// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package policy holds recovery strategies layered above the search engine.
//
// The engine itself never retries: every algorithm is deterministic, so
// re-running it with the same inputs changes nothing. A policy changes the
// inputs instead, and every attempt keeps its own complete trace.
package policy

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/AleutianAI/searchtrace/services/search/algorithms"
	"github.com/AleutianAI/searchtrace/services/search/algorithms/local"
	"github.com/AleutianAI/searchtrace/services/search/problem"
	"github.com/AleutianAI/searchtrace/services/search/trace"
)

// NameRandomRestart is the policy name used in traces and metrics.
const NameRandomRestart = "random_restart"

// RestartConfig parameterises random-restart hill climbing.
type RestartConfig struct {
	// Climb is the base configuration. Its Lower and Upper bounds must be
	// set; they define the interval starts are drawn from. Its Start is
	// used for the first attempt.
	Climb local.Config

	// Restarts is the number of additional random starts.
	Restarts int

	// Seed makes the drawn starts reproducible.
	Seed uint64
}

// Attempt is one climb of a restart run.
type Attempt struct {
	Start  float64
	Result local.Result
	Trace  trace.Trace
}

// RestartResult summarises a restart run.
type RestartResult struct {
	// Attempts in execution order; the first starts at Climb.Start.
	Attempts []Attempt

	// Best is the index of the attempt with the best final value. Ties go
	// to the earliest attempt.
	Best int
}

// BestAttempt returns the winning attempt.
func (r RestartResult) BestAttempt() Attempt {
	return r.Attempts[r.Best]
}

// RandomRestart climbs f from Climb.Start and then from Restarts uniformly
// drawn positions, each with its own recorder.
//
// Description:
//
//	Starts are drawn from a PCG source seeded with Seed and snapped to the
//	step grid of the first attempt, so two runs with the same seed produce
//	identical traces. The attempt with the best final value wins.
//
// Outputs:
//
//	RestartResult - Every attempt and the winner.
//	error - *algorithms.AlgorithmError for an invalid configuration, or the
//	        first climb error.
func RandomRestart(f problem.Objective, cfg RestartConfig) (RestartResult, error) {
	if cfg.Restarts < 0 {
		return RestartResult{}, algorithms.Invalid(NameRandomRestart, "RandomRestart", algorithms.ErrInvalidConfig, "restarts %d is negative", cfg.Restarts)
	}
	if cfg.Climb.Lower >= cfg.Climb.Upper {
		return RestartResult{}, algorithms.Invalid(NameRandomRestart, "RandomRestart", algorithms.ErrInvalidConfig, "bounds [%v, %v] do not define an interval", cfg.Climb.Lower, cfg.Climb.Upper)
	}
	if err := cfg.Climb.Validate(); err != nil {
		return RestartResult{}, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	starts := make([]float64, 0, cfg.Restarts+1)
	starts = append(starts, cfg.Climb.Start)

	// Draw whole steps from Start so every position stays on one grid.
	lo := int((cfg.Climb.Lower - cfg.Climb.Start) / cfg.Climb.StepSize)
	hi := int((cfg.Climb.Upper - cfg.Climb.Start) / cfg.Climb.StepSize)
	for i := 0; i < cfg.Restarts; i++ {
		k := lo + rng.IntN(hi-lo+1)
		x := cfg.Climb.Start + float64(k)*cfg.Climb.StepSize
		starts = append(starts, math.Max(cfg.Climb.Lower, math.Min(cfg.Climb.Upper, x)))
	}

	var out RestartResult
	for i, start := range starts {
		climb := cfg.Climb
		climb.Start = start
		rec := trace.NewRecorder()
		res, err := local.Climb(f, climb, rec)
		if err != nil {
			return RestartResult{}, fmt.Errorf("attempt %d: %w", i, err)
		}
		out.Attempts = append(out.Attempts, Attempt{
			Start:  start,
			Result: res,
			Trace:  rec.Export(local.Name, res.Outcome),
		})
		if better(res.Value, out.Attempts[out.Best].Result.Value, cfg.Climb.Minimize) {
			out.Best = i
		}
	}
	return out, nil
}

func better(a, b float64, minimize bool) bool {
	if minimize {
		return a < b
	}
	return a > b
}
