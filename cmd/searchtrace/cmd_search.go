// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"log/slog"

	"github.com/AleutianAI/searchtrace/pkg/validation"
	"github.com/AleutianAI/searchtrace/services/search/algorithms"
	"github.com/AleutianAI/searchtrace/services/search/algorithms/adversarial"
	"github.com/AleutianAI/searchtrace/services/search/algorithms/constraints"
	"github.com/AleutianAI/searchtrace/services/search/algorithms/informed"
	"github.com/AleutianAI/searchtrace/services/search/algorithms/local"
	"github.com/AleutianAI/searchtrace/services/search/algorithms/uninformed"
	"github.com/AleutianAI/searchtrace/services/search/policy"
	"github.com/AleutianAI/searchtrace/services/search/problem"
	"github.com/AleutianAI/searchtrace/services/search/scenarios"
	"github.com/AleutianAI/searchtrace/services/search/trace"
	"github.com/spf13/cobra"
)

// Built-in objectives for the climb command.
const (
	curveTwoPeaks = "two-peaks"
	curveLecture  = "lecture"
)

// runOne executes a single job through the runner and prints its trace.
// Terminal outcomes such as exhausted are printed, not treated as errors.
func (a *app) runOne(cmd *cobra.Command, opts *options, job algorithms.Job) error {
	report := a.runner.Run(cmd.Context(), job)
	if report.Err != nil {
		return report.Err
	}
	return writeTrace(cmd.OutOrStdout(), opts.format, report.Trace)
}

// loadDocument reads a problem document and checks its kind.
func loadDocument(path, kind string) (*problem.Document, error) {
	doc, err := problem.LoadDocument(path)
	if err != nil {
		return nil, err
	}
	if doc.Kind != kind {
		return nil, fmt.Errorf("%s: %w: want a %s document, got %s", path, problem.ErrUnsupportedDocument, kind, doc.Kind)
	}
	return doc, nil
}

// graphProblem returns the graph and endpoints of a graph command: the
// document when --problem is set, the given defaults otherwise, with
// --start and --goal overriding either.
func graphProblem(opts *options, def func() *problem.Graph, start, goal string) (*problem.Graph, *problem.Document, problem.NodeID, problem.NodeID, error) {
	var (
		g   *problem.Graph
		doc *problem.Document
	)
	if opts.problemPath != "" {
		var err error
		doc, err = loadDocument(opts.problemPath, problem.KindGraph)
		if err != nil {
			return nil, nil, "", "", err
		}
		if g, err = doc.Graph(); err != nil {
			return nil, nil, "", "", err
		}
		start, goal = doc.Start, doc.Goal
	} else {
		g = def()
	}
	if opts.start != "" {
		id, err := validation.SanitizeIdentifier(opts.start)
		if err != nil {
			return nil, nil, "", "", fmt.Errorf("--start: %w", err)
		}
		start = id
	}
	if opts.goal != "" {
		id, err := validation.SanitizeIdentifier(opts.goal)
		if err != nil {
			return nil, nil, "", "", fmt.Errorf("--goal: %w", err)
		}
		goal = id
	}
	return g, doc, problem.NodeID(start), problem.NodeID(goal), nil
}

// -----------------------------------------------------------------------------
// traverse
// -----------------------------------------------------------------------------

func runTraverse(cmd *cobra.Command, a *app, opts *options) error {
	order, err := uninformed.ParseOrder(opts.order)
	if err != nil {
		return err
	}
	g, _, start, goal, err := graphProblem(opts, scenarios.SampleTree, "A", "I")
	if err != nil {
		return err
	}

	var res uninformed.Result
	job := algorithms.Job{
		Name:      "traverse",
		Algorithm: order.String(),
		Run: func(rec *trace.Recorder) (trace.Outcome, error) {
			var err error
			res, err = uninformed.Traverse(g, start, goal, order, rec)
			return res.Outcome, err
		},
	}
	if err := a.runOne(cmd, opts, job); err != nil {
		return err
	}
	a.logger.Info("traversal finished",
		slog.String("order", order.String()),
		slog.String("outcome", string(res.Outcome)),
		slog.String("path", algorithms.FormatPath(res.Path)),
		slog.Int("explored", len(res.Explored)),
	)
	return nil
}

// -----------------------------------------------------------------------------
// astar
// -----------------------------------------------------------------------------

func runAStar(cmd *cobra.Command, a *app, opts *options) error {
	g, doc, start, goal, err := graphProblem(opts, scenarios.Romania, "Arad", "Bucharest")
	if err != nil {
		return err
	}

	var h problem.Heuristic
	switch {
	case doc != nil:
		if opts.inadmissible {
			return fmt.Errorf("--inadmissible only applies to the built-in map")
		}
		if h, err = doc.HeuristicFor(g); err != nil {
			return err
		}
	case opts.inadmissible:
		h = scenarios.InadmissibleRomaniaHeuristic(g)
	default:
		h = scenarios.RomaniaHeuristic(g)
	}

	// An overestimating heuristic is allowed; the run shows its effect.
	if g.Has(goal) {
		if over, err := informed.Overestimates(g, h, goal); err == nil && len(over) > 0 {
			a.logger.Warn("heuristic overestimates true cost; A* may return a suboptimal path",
				slog.String("nodes", algorithms.FormatPath(over)))
		}
	}

	var res informed.Result
	job := algorithms.Job{
		Name:      "astar",
		Algorithm: informed.Name,
		Run: func(rec *trace.Recorder) (trace.Outcome, error) {
			var err error
			res, err = informed.Search(g, h, start, goal, rec)
			return res.Outcome, err
		},
	}
	if err := a.runOne(cmd, opts, job); err != nil {
		return err
	}
	a.logger.Info("A* finished",
		slog.String("outcome", string(res.Outcome)),
		slog.String("path", algorithms.FormatPath(res.Path)),
		slog.Float64("cost", res.Cost),
		slog.Int("expanded", len(res.Expanded)),
	)
	return nil
}

// -----------------------------------------------------------------------------
// csp
// -----------------------------------------------------------------------------

func runCSP(cmd *cobra.Command, a *app, opts *options) error {
	var p *problem.CSP
	if opts.problemPath != "" {
		doc, err := loadDocument(opts.problemPath, problem.KindCSP)
		if err != nil {
			return err
		}
		if p, err = doc.CSP(); err != nil {
			return err
		}
	} else {
		p = scenarios.ClassScheduling()
	}

	var res constraints.Result
	job := algorithms.Job{
		Name:      "csp",
		Algorithm: constraints.Name,
		Run: func(rec *trace.Recorder) (trace.Outcome, error) {
			var err error
			res, err = constraints.Solve(p, rec)
			return res.Outcome, err
		},
	}
	if err := a.runOne(cmd, opts, job); err != nil {
		return err
	}
	solution := "-"
	if res.Assignment != nil {
		solution = res.Assignment.String()
	}
	a.logger.Info("CSP search finished",
		slog.String("outcome", string(res.Outcome)),
		slog.String("solution", solution),
		slog.Int("conflicts", res.Conflicts),
		slog.Int("backtracks", res.Backtracks),
	)
	return nil
}

// -----------------------------------------------------------------------------
// climb
// -----------------------------------------------------------------------------

// climbProblem resolves the objective and climb configuration. Flags win
// over the document, which wins over the config file.
func climbProblem(cmd *cobra.Command, a *app, opts *options) (problem.Objective, local.Config, error) {
	cfg := local.Config{
		StepSize: a.cfg.Climb.StepSize,
		MaxSteps: a.cfg.Climb.MaxSteps,
		Lower:    a.cfg.Climb.Lower,
		Upper:    a.cfg.Climb.Upper,
	}

	var f problem.Objective
	if opts.problemPath != "" {
		doc, err := loadDocument(opts.problemPath, problem.KindObjective)
		if err != nil {
			return nil, local.Config{}, err
		}
		obj, start, step, err := doc.Objective()
		if err != nil {
			return nil, local.Config{}, err
		}
		f, cfg.Start = obj, start
		if step > 0 {
			cfg.StepSize = step
		}
	} else {
		switch opts.curve {
		case curveTwoPeaks:
			f = scenarios.TwoPeaks()
		case curveLecture:
			f = scenarios.LectureCurve()
		default:
			return nil, local.Config{}, fmt.Errorf("unknown curve %q (want %s or %s)", opts.curve, curveTwoPeaks, curveLecture)
		}
		cfg.Start = scenarios.TwoPeaksConfig().Start
	}

	flags := cmd.Flags()
	if flags.Changed("x") {
		cfg.Start = opts.startX
	}
	if flags.Changed("step") {
		cfg.StepSize = opts.stepSize
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = opts.maxSteps
	}
	if flags.Changed("lower") {
		cfg.Lower = opts.lower
	}
	if flags.Changed("upper") {
		cfg.Upper = opts.upper
	}
	cfg.Minimize = opts.minimize
	return f, cfg, nil
}

func runClimb(cmd *cobra.Command, a *app, opts *options) error {
	f, cfg, err := climbProblem(cmd, a, opts)
	if err != nil {
		return err
	}
	restarts, seed := a.cfg.Climb.Restarts, a.cfg.Climb.Seed
	if cmd.Flags().Changed("restarts") {
		restarts = opts.restarts
	}
	if cmd.Flags().Changed("seed") {
		seed = opts.seed
	}

	if restarts == 0 {
		var res local.Result
		job := algorithms.Job{
			Name:      "climb",
			Algorithm: local.Name,
			Run: func(rec *trace.Recorder) (trace.Outcome, error) {
				var err error
				res, err = local.Climb(f, cfg, rec)
				return res.Outcome, err
			},
		}
		if err := a.runOne(cmd, opts, job); err != nil {
			return err
		}
		a.logger.Info("hill climbing finished",
			slog.String("outcome", string(res.Outcome)),
			slog.Float64("x", res.X),
			slog.Float64("value", res.Value),
			slog.Int("steps", res.Steps),
		)
		return nil
	}

	// The winning attempt's events are replayed into the job recorder so
	// the printed trace is that attempt, renumbered from 1.
	var best policy.Attempt
	job := algorithms.Job{
		Name:      "climb-restarts",
		Algorithm: policy.NameRandomRestart,
		Run: func(rec *trace.Recorder) (trace.Outcome, error) {
			res, err := policy.RandomRestart(f, policy.RestartConfig{Climb: cfg, Restarts: restarts, Seed: seed})
			if err != nil {
				return "", err
			}
			for i, att := range res.Attempts {
				a.logger.Debug("restart attempt",
					slog.Int("attempt", i),
					slog.Float64("start", att.Start),
					slog.Float64("x", att.Result.X),
					slog.Float64("value", att.Result.Value),
				)
			}
			best = res.BestAttempt()
			for _, e := range best.Trace.Events {
				rec.Record(e)
			}
			return best.Result.Outcome, nil
		},
	}
	if err := a.runOne(cmd, opts, job); err != nil {
		return err
	}
	a.logger.Info("random-restart hill climbing finished",
		slog.Int("restarts", restarts),
		slog.Float64("best_start", best.Start),
		slog.Float64("x", best.Result.X),
		slog.Float64("value", best.Result.Value),
	)
	return nil
}

// -----------------------------------------------------------------------------
// minimax
// -----------------------------------------------------------------------------

func runMinimax(cmd *cobra.Command, a *app, opts *options) error {
	tree, root := scenarios.SampleGameTree(), "A"
	if opts.problemPath != "" {
		doc, err := loadDocument(opts.problemPath, problem.KindGame)
		if err != nil {
			return err
		}
		if tree, err = doc.GameTree(); err != nil {
			return err
		}
		root = doc.Root
	}
	if opts.root != "" {
		id, err := validation.SanitizeIdentifier(opts.root)
		if err != nil {
			return fmt.Errorf("--root: %w", err)
		}
		root = id
	}

	evalOpts := adversarial.Options{Pruning: opts.pruning}
	var res adversarial.Result
	job := algorithms.Job{
		Name:      "minimax",
		Algorithm: evalOpts.Name(),
		Run: func(rec *trace.Recorder) (trace.Outcome, error) {
			var err error
			res, err = adversarial.Evaluate(tree, problem.NodeID(root), evalOpts, rec)
			return res.Outcome, err
		},
	}
	if err := a.runOne(cmd, opts, job); err != nil {
		return err
	}
	a.logger.Info("game tree evaluated",
		slog.String("algorithm", evalOpts.Name()),
		slog.Float64("value", res.Value),
		slog.String("best_move", string(res.BestMove)),
		slog.Int("pruned", len(res.Pruned)),
	)
	return nil
}
