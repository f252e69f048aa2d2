// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scenarios

import (
	"github.com/AleutianAI/searchtrace/services/search/algorithms"
	"github.com/AleutianAI/searchtrace/services/search/algorithms/adversarial"
	"github.com/AleutianAI/searchtrace/services/search/algorithms/constraints"
	"github.com/AleutianAI/searchtrace/services/search/algorithms/informed"
	"github.com/AleutianAI/searchtrace/services/search/algorithms/local"
	"github.com/AleutianAI/searchtrace/services/search/algorithms/uninformed"
	"github.com/AleutianAI/searchtrace/services/search/trace"
)

// Scenario is a named, runnable lecture run.
type Scenario struct {
	Name        string
	Algorithm   string
	Description string

	run func(rec *trace.Recorder) (trace.Outcome, error)
}

// Job adapts the scenario for an algorithms.Runner. Each call of the job's
// Run builds its own fixture.
func (s Scenario) Job() algorithms.Job {
	return algorithms.Job{Name: s.Name, Algorithm: s.Algorithm, Run: s.run}
}

// Run executes the scenario against rec.
func (s Scenario) Run(rec *trace.Recorder) (trace.Outcome, error) {
	return s.run(rec)
}

// All returns every built-in scenario in a stable order.
func All() []Scenario {
	return []Scenario{
		{
			Name:        "tree-dfs",
			Algorithm:   uninformed.LIFO.String(),
			Description: "Depth-first search of the 9-node tree from A to I",
			run: func(rec *trace.Recorder) (trace.Outcome, error) {
				res, err := uninformed.Traverse(SampleTree(), "A", "I", uninformed.LIFO, rec)
				return res.Outcome, err
			},
		},
		{
			Name:        "tree-bfs",
			Algorithm:   uninformed.FIFO.String(),
			Description: "Breadth-first search of the 9-node tree from A to I",
			run: func(rec *trace.Recorder) (trace.Outcome, error) {
				res, err := uninformed.Traverse(SampleTree(), "A", "I", uninformed.FIFO, rec)
				return res.Outcome, err
			},
		},
		{
			Name:        "romania-astar",
			Algorithm:   informed.Name,
			Description: "A* from Arad to Bucharest with straight-line distances",
			run: func(rec *trace.Recorder) (trace.Outcome, error) {
				g := Romania()
				res, err := informed.Search(g, RomaniaHeuristic(g), "Arad", "Bucharest", rec)
				return res.Outcome, err
			},
		},
		{
			Name:        "romania-astar-inadmissible",
			Algorithm:   informed.Name,
			Description: "A* from Arad to Bucharest with Pitesti overestimated",
			run: func(rec *trace.Recorder) (trace.Outcome, error) {
				g := Romania()
				res, err := informed.Search(g, InadmissibleRomaniaHeuristic(g), "Arad", "Bucharest", rec)
				return res.Outcome, err
			},
		},
		{
			Name:        "class-scheduling",
			Algorithm:   constraints.Name,
			Description: "Backtracking over 4 classes, 4 time slots and 2 rooms",
			run: func(rec *trace.Recorder) (trace.Outcome, error) {
				res, err := constraints.Solve(ClassScheduling(), rec)
				return res.Outcome, err
			},
		},
		{
			Name:        "two-peaks-climb",
			Algorithm:   local.Name,
			Description: "Hill climbing from x=1.0, trapped at the local maximum near 2.8",
			run: func(rec *trace.Recorder) (trace.Outcome, error) {
				res, err := local.Climb(TwoPeaks(), TwoPeaksConfig(), rec)
				return res.Outcome, err
			},
		},
		{
			Name:        "lecture-curve-climb",
			Algorithm:   local.Name,
			Description: "Hill climbing on the lecture's plotted curve from x=1.0",
			run: func(rec *trace.Recorder) (trace.Outcome, error) {
				res, err := local.Climb(LectureCurve(), LectureCurveConfig(), rec)
				return res.Outcome, err
			},
		},
		{
			Name:        "game-minimax",
			Algorithm:   adversarial.NameMinimax,
			Description: "Minimax over the [3,5,2,9] game tree",
			run: func(rec *trace.Recorder) (trace.Outcome, error) {
				res, err := adversarial.Evaluate(SampleGameTree(), "A", adversarial.Options{}, rec)
				return res.Outcome, err
			},
		},
		{
			Name:        "game-alphabeta",
			Algorithm:   adversarial.NameAlphaBeta,
			Description: "Alpha-beta over the [3,5,2,9] game tree",
			run: func(rec *trace.Recorder) (trace.Outcome, error) {
				res, err := adversarial.Evaluate(SampleGameTree(), "A", adversarial.Options{Pruning: true}, rec)
				return res.Outcome, err
			},
		},
	}
}

// Lookup returns the scenario with the given name.
func Lookup(name string) (Scenario, bool) {
	for _, s := range All() {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Jobs returns the runner jobs of the named scenarios, or of all of them
// when names is empty. Unknown names are returned separately.
func Jobs(names ...string) ([]algorithms.Job, []string) {
	if len(names) == 0 {
		all := All()
		jobs := make([]algorithms.Job, len(all))
		for i, s := range all {
			jobs[i] = s.Job()
		}
		return jobs, nil
	}
	var (
		jobs    []algorithms.Job
		unknown []string
	)
	for _, n := range names {
		s, ok := Lookup(n)
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		jobs = append(jobs, s.Job())
	}
	return jobs, unknown
}
