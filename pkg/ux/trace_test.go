// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/AleutianAI/searchtrace/services/search/trace"
)

func sampleTrace() trace.Trace {
	rec := trace.NewRecorder()
	rec.Emit(trace.NewEvent(trace.KindFrontierUpdate).On("Arad").With(trace.MetricDepth, 0).With(trace.MetricFrontierSize, 1))
	rec.Emit(trace.NewEvent(trace.KindExpand).On("Arad").With(trace.MetricG, 0).With(trace.MetricH, 366).With(trace.MetricF, 366))
	rec.Emit(trace.NewEvent(trace.KindGoalReached).On("Bucharest").With(trace.MetricCost, 418).Label("path=Arad -> Bucharest"))
	return rec.Export("astar", trace.OutcomeGoalReached)
}

func TestTraceRenderer_Plain(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTraceRenderer(&buf).Render(sampleTrace()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "astar  run ") || !strings.Contains(lines[0], "goal_reached  (3 events)") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "expand") || !strings.Contains(lines[2], "f=366 g=0 h=366") {
		t.Errorf("expand line = %q", lines[2])
	}
	if !strings.HasSuffix(lines[3], "cost=418  path=Arad -> Bucharest") {
		t.Errorf("goal line = %q", lines[3])
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("plain output must not contain ANSI escapes")
	}
}

func TestTraceRenderer_NoSubject(t *testing.T) {
	rec := trace.NewRecorder()
	rec.Emit(trace.NewEvent(trace.KindExhausted).With(trace.MetricExplored, 4))

	var buf bytes.Buffer
	if err := NewTraceRenderer(&buf).WithColor(false).Render(rec.Export("dfs", trace.OutcomeExhausted)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "exhausted          -") {
		t.Errorf("missing subject placeholder:\n%s", buf.String())
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{418, "418"},
		{-3, "-3"},
		{2.8000000000000003, "2.8"},
		{0.5, "0.5"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMetrics_Sorted(t *testing.T) {
	got := FormatMetrics(trace.Metrics{"h": 1, "f": 2, "g": 1})
	if got != "f=2 g=1 h=1" {
		t.Errorf("FormatMetrics = %q", got)
	}
	if FormatMetrics(nil) != "" {
		t.Error("nil metrics should render empty")
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	rows := []RunSummary{
		{Name: "romania-astar", Algorithm: "astar", Outcome: trace.OutcomeGoalReached, Events: 40},
		{Name: "broken", Algorithm: "dfs", Err: errors.New("unknown start")},
	}
	if err := RenderSummary(&buf, rows, false); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"RUN", "romania-astar", "goal_reached", "error: unknown start"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestIsTerminal_Buffer(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}

func TestRenderScenarioList_Aligned(t *testing.T) {
	var buf bytes.Buffer
	rows := []ScenarioRow{
		{Name: "tree-dfs", Algorithm: "dfs", Description: "depth-first"},
		{Name: "romania-astar", Algorithm: "astar", Description: "route finding"},
	}
	if err := RenderScenarioList(&buf, rows, false); err != nil {
		t.Fatalf("RenderScenarioList: %v", err)
	}

	want := "NAME           ALGORITHM  DESCRIPTION\n" +
		"tree-dfs       dfs        depth-first\n" +
		"romania-astar  astar      route finding\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}
