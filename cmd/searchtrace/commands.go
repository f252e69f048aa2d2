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
	"github.com/spf13/cobra"
)

// options holds every flag value. Each root command owns its own copy so
// repeated executions in one process never see stale flags.
type options struct {
	// Global
	configPath  string
	logLevel    string
	format      string
	otelStdout  bool
	metrics     bool
	parallelism int

	// Problem selection
	problemPath string
	start       string
	goal        string

	// traverse
	order string

	// astar
	inadmissible bool

	// climb
	curve    string
	startX   float64
	stepSize float64
	maxSteps int
	minimize bool
	restarts int
	seed     uint64
	lower    float64
	upper    float64

	// minimax
	root    string
	pruning bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var a *app

	rootCmd := &cobra.Command{
		Use:           "searchtrace",
		Short:         "Run instrumented search algorithms and print their traces",
		Long:          "searchtrace runs DFS/BFS, A*, backtracking CSP, hill climbing and minimax with\nalpha-beta, recording every decision as a replayable trace event.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(cmd, opts)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a == nil {
				return nil
			}
			return a.close(cmd.Context())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to a YAML or JSON config file")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVar(&opts.format, "format", formatJSON, "trace output format (json, text)")
	pf.BoolVar(&opts.otelStdout, "otel-stdout", false, "print OpenTelemetry spans to stderr")
	pf.BoolVar(&opts.metrics, "metrics", false, "print Prometheus metrics to stderr when done")
	pf.IntVar(&opts.parallelism, "parallelism", 0, "concurrent runs for batch commands, 0 for one per run (default from config)")

	// --- Graph search ---
	traverseCmd := &cobra.Command{
		Use:   "traverse",
		Short: "Depth-first or breadth-first search (default: 9-node tree, A to I)",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runTraverse(cmd, a, opts) },
	}
	traverseCmd.Flags().StringVar(&opts.order, "order", "dfs", "frontier order (dfs, bfs)")

	astarCmd := &cobra.Command{
		Use:   "astar",
		Short: "A* search (default: Romania, Arad to Bucharest)",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runAStar(cmd, a, opts) },
	}
	astarCmd.Flags().BoolVar(&opts.inadmissible, "inadmissible", false, "overestimate Pitesti (built-in map only)")

	for _, c := range []*cobra.Command{traverseCmd, astarCmd} {
		c.Flags().StringVar(&opts.problemPath, "problem", "", "graph problem document")
		c.Flags().StringVar(&opts.start, "start", "", "start node (overrides the document)")
		c.Flags().StringVar(&opts.goal, "goal", "", "goal node (overrides the document)")
	}

	// --- CSP ---
	cspCmd := &cobra.Command{
		Use:   "csp",
		Short: "Backtracking CSP solver (default: class scheduling)",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runCSP(cmd, a, opts) },
	}
	cspCmd.Flags().StringVar(&opts.problemPath, "problem", "", "csp problem document")

	// --- Local search ---
	climbCmd := &cobra.Command{
		Use:   "climb",
		Short: "Hill climbing on a 1-D objective (default: two peaks, from x=1.0)",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runClimb(cmd, a, opts) },
	}
	cf := climbCmd.Flags()
	cf.StringVar(&opts.problemPath, "problem", "", "objective problem document")
	cf.StringVar(&opts.curve, "curve", curveTwoPeaks, "built-in objective (two-peaks, lecture)")
	cf.Float64Var(&opts.startX, "x", 0, "start position (default from problem or 1.0)")
	cf.Float64Var(&opts.stepSize, "step", 0, "step size (default from problem or config)")
	cf.IntVar(&opts.maxSteps, "max-steps", 0, "step budget (default from config)")
	cf.BoolVar(&opts.minimize, "minimize", false, "descend instead of ascend")
	cf.IntVar(&opts.restarts, "restarts", 0, "random restarts (default from config)")
	cf.Uint64Var(&opts.seed, "seed", 0, "random restart seed (default from config)")
	cf.Float64Var(&opts.lower, "lower", 0, "lower bound (default from config)")
	cf.Float64Var(&opts.upper, "upper", 0, "upper bound (default from config)")

	// --- Adversarial ---
	minimaxCmd := &cobra.Command{
		Use:   "minimax",
		Short: "Minimax game-tree evaluation (default: [3,5,2,9] tree)",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runMinimax(cmd, a, opts) },
	}
	minimaxCmd.Flags().StringVar(&opts.problemPath, "problem", "", "game problem document")
	minimaxCmd.Flags().StringVar(&opts.root, "root", "", "root node (overrides the document)")
	minimaxCmd.Flags().BoolVar(&opts.pruning, "pruning", false, "enable alpha-beta pruning")

	// --- Scenarios ---
	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List or run the built-in lecture scenarios",
	}
	scenariosListCmd := &cobra.Command{
		Use:   "list",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runScenariosList(cmd) },
	}
	scenariosRunCmd := &cobra.Command{
		Use:   "run [name...]",
		Short: "Run scenarios concurrently (all when no name is given)",
		RunE:  func(cmd *cobra.Command, args []string) error { return runScenarios(cmd, a, opts, args) },
	}
	scenariosCmd.AddCommand(scenariosListCmd, scenariosRunCmd)

	// --- Validation ---
	validateCmd := &cobra.Command{
		Use:   "validate file...",
		Short: "Parse and build problem documents without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return runValidate(cmd, args) },
	}

	rootCmd.AddCommand(traverseCmd, astarCmd, cspCmd, climbCmd, minimaxCmd, scenariosCmd, validateCmd)
	return rootCmd
}
