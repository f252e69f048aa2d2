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
	"strings"

	"github.com/AleutianAI/searchtrace/pkg/ux"
	"github.com/AleutianAI/searchtrace/pkg/validation"
	"github.com/AleutianAI/searchtrace/services/search/problem"
	"github.com/AleutianAI/searchtrace/services/search/scenarios"
	"github.com/spf13/cobra"
)

func runScenariosList(cmd *cobra.Command) error {
	all := scenarios.All()
	rows := make([]ux.ScenarioRow, len(all))
	for i, s := range all {
		rows[i] = ux.ScenarioRow{Name: s.Name, Algorithm: s.Algorithm, Description: s.Description}
	}
	return ux.RenderScenarioList(cmd.OutOrStdout(), rows, ux.IsTerminal(cmd.OutOrStdout()))
}

// runScenarios runs the named scenarios (all when none are named)
// concurrently. Each run is independent and deterministic, so the printed
// traces do not depend on scheduling.
func runScenarios(cmd *cobra.Command, a *app, opts *options, names []string) error {
	jobs, unknown := scenarios.Jobs(names...)
	if len(unknown) > 0 {
		return fmt.Errorf("unknown scenario(s): %s (see 'searchtrace scenarios list')", strings.Join(unknown, ", "))
	}

	reports, err := a.runner.RunAll(cmd.Context(), jobs)
	if err != nil {
		return err
	}
	if err := writeReports(cmd.OutOrStdout(), opts.format, reports); err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if r.Err != nil {
			failed++
		}
	}
	stats := a.runner.Stats()
	a.logger.Info("scenarios finished",
		slog.Int("runs", stats.Completed),
		slog.Int("failed", failed),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(reports))
	}
	return nil
}

// runValidate builds every document and reports what it declares.
func runValidate(cmd *cobra.Command, paths []string) error {
	out := cmd.OutOrStdout()
	bad := 0
	for _, path := range paths {
		summary, err := validateDocument(path)
		if err != nil {
			bad++
			fmt.Fprintf(out, "FAIL  %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "ok    %s: %s\n", path, summary)
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d documents invalid", bad, len(paths))
	}
	return nil
}

func validateDocument(path string) (string, error) {
	doc, err := problem.LoadDocument(path)
	if err != nil {
		return "", err
	}
	switch doc.Kind {
	case problem.KindGraph:
		g, err := doc.Graph()
		if err != nil {
			return "", err
		}
		if err := validation.ValidateIdentifiers(g.Nodes()); err != nil {
			return "", err
		}
		if _, err := doc.HeuristicFor(g); err != nil {
			return "", err
		}
		for _, id := range []string{doc.Start, doc.Goal} {
			if id != "" && !g.Has(problem.NodeID(id)) {
				return "", fmt.Errorf("%w: %w: %s", problem.ErrMalformedProblem, problem.ErrUnknownNode, id)
			}
		}
		return fmt.Sprintf("%s graph, %d nodes, %d arcs", g.Kind(), g.Len(), g.ArcCount()), nil
	case problem.KindCSP:
		p, err := doc.CSP()
		if err != nil {
			return "", err
		}
		if err := validation.ValidateIdentifiers(p.Variables()); err != nil {
			return "", err
		}
		return fmt.Sprintf("csp, %d variables, %d constraints", len(p.Variables()), len(p.Constraints())), nil
	case problem.KindGame:
		t, err := doc.GameTree()
		if err != nil {
			return "", err
		}
		if err := validation.ValidateIdentifiers(t.Nodes()); err != nil {
			return "", err
		}
		if doc.Root != "" {
			if _, ok := t.Node(problem.NodeID(doc.Root)); !ok {
				return "", fmt.Errorf("%w: %w: root %s", problem.ErrMalformedProblem, problem.ErrUnknownNode, doc.Root)
			}
		}
		return fmt.Sprintf("game tree, %d nodes", t.Len()), nil
	default:
		if _, _, _, err := doc.Objective(); err != nil {
			return "", err
		}
		return fmt.Sprintf("objective, %d bumps", len(doc.Bumps)), nil
	}
}
