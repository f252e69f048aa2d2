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
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/AleutianAI/searchtrace/services/search/trace"
)

// TraceRenderer prints traces as one aligned line per event.
//
// Description:
//
//	Output looks like:
//
//	  astar  run 3f2a...  goal_reached  (14 events)
//	     1  frontier_update    Arad        depth=0 frontier_size=1
//	     2  expand             Arad        f=366 frontier_size=0 g=0 h=366
//
//	Metrics are listed in name order so output is stable. Colors are only
//	used when the destination is a terminal.
//
// Thread Safety: NOT safe for concurrent use.
type TraceRenderer struct {
	w     io.Writer
	color painter
}

// NewTraceRenderer creates a renderer writing to w, coloring output when w
// is a terminal.
func NewTraceRenderer(w io.Writer) *TraceRenderer {
	return &TraceRenderer{w: w, color: painter(IsTerminal(w))}
}

// WithColor forces color output on or off.
func (r *TraceRenderer) WithColor(on bool) *TraceRenderer {
	r.color = painter(on)
	return r
}

// Render writes the trace header and every event.
func (r *TraceRenderer) Render(tr trace.Trace) error {
	header := fmt.Sprintf("%s  run %s  %s  (%d events)",
		r.color.paint(Styles.Title, tr.Algorithm), tr.RunID, r.outcome(tr.Outcome), len(tr.Events))
	if _, err := fmt.Fprintln(r.w, header); err != nil {
		return err
	}
	for _, e := range tr.Events {
		if _, err := fmt.Fprintln(r.w, r.line(e)); err != nil {
			return err
		}
	}
	return nil
}

func (r *TraceRenderer) line(e trace.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%6d  %s  %-10s", e.Sequence, r.kind(e.Kind), e.Subject.String())
	if m := FormatMetrics(e.Metrics); m != "" {
		b.WriteString("  ")
		b.WriteString(m)
	}
	if len(e.Labels) > 0 {
		b.WriteString("  ")
		b.WriteString(r.color.paint(Styles.Muted, strings.Join(e.Labels, " ")))
	}
	return b.String()
}

func (r *TraceRenderer) kind(k trace.Kind) string {
	name := fmt.Sprintf("%-17s", k.String())
	switch k {
	case trace.KindGoalReached, trace.KindSolutionFound, trace.KindLocalOptimum:
		return r.color.paint(Styles.Success, name)
	case trace.KindConflictDetected, trace.KindBacktrack, trace.KindPrune:
		return r.color.paint(Styles.Warning, name)
	case trace.KindExhausted:
		return r.color.paint(Styles.Error, name)
	default:
		return name
	}
}

func (r *TraceRenderer) outcome(o trace.Outcome) string {
	if o.Succeeded() {
		return r.color.paint(Styles.Success, string(IconSuccess)+" "+string(o))
	}
	return r.color.paint(Styles.Warning, string(IconWarning)+" "+string(o))
}

// FormatMetrics renders metrics as "name=value" pairs in name order.
func FormatMetrics(m trace.Metrics) string {
	if len(m) == 0 {
		return ""
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	slices.Sort(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = k + "=" + FormatNumber(m[k])
	}
	return strings.Join(parts, " ")
}

// FormatNumber prints integers without a fraction and infinities as
// "+Inf"/"-Inf".
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return strconv.FormatInt(int64(v), 10)
	default:
		return strconv.FormatFloat(v, 'g', 6, 64)
	}
}

// -----------------------------------------------------------------------------
// Run summaries
// -----------------------------------------------------------------------------

// RunSummary is one row of a batch summary.
type RunSummary struct {
	Name      string
	Algorithm string
	Outcome   trace.Outcome
	Events    int
	Duration  time.Duration
	Err       error
}

// RenderSummary prints one line per run inside a rounded box when color is
// on, plain lines otherwise.
func RenderSummary(w io.Writer, rows []RunSummary, color bool) error {
	p := painter(color)
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, p.paint(Styles.Bold, fmt.Sprintf("%-28s %-14s %-14s %7s %10s", "RUN", "ALGORITHM", "OUTCOME", "EVENTS", "DURATION")))
	for _, row := range rows {
		status := string(row.Outcome)
		icon := IconSuccess
		style := Styles.Success
		switch {
		case row.Err != nil:
			status, icon, style = "error: "+row.Err.Error(), IconError, Styles.Error
		case !row.Outcome.Succeeded():
			icon, style = IconWarning, Styles.Warning
		}
		lines = append(lines, fmt.Sprintf("%-28s %-14s %s %7d %10s",
			row.Name, row.Algorithm,
			p.paint(style, fmt.Sprintf("%s %-12s", icon, status)),
			row.Events, row.Duration.Round(time.Microsecond)))
	}
	out := strings.Join(lines, "\n")
	if color {
		out = Styles.Box.Render(out)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// ScenarioRow is one line of the scenario catalog listing.
type ScenarioRow struct {
	Name        string
	Algorithm   string
	Description string
}

// RenderScenarioList prints the catalog with the name and algorithm
// columns padded to their widest entry.
func RenderScenarioList(w io.Writer, rows []ScenarioRow, color bool) error {
	p := painter(color)
	nameW, algW := len("NAME"), len("ALGORITHM")
	for _, r := range rows {
		nameW = max(nameW, len(r.Name))
		algW = max(algW, len(r.Algorithm))
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, p.paint(Styles.Bold, fmt.Sprintf("%-*s  %-*s  %s", nameW, "NAME", algW, "ALGORITHM", "DESCRIPTION")))
	for _, r := range rows {
		name := p.paint(Styles.Title, fmt.Sprintf("%-*s", nameW, r.Name))
		lines = append(lines, fmt.Sprintf("%s  %-*s  %s", name, algW, r.Algorithm, p.paint(Styles.Muted, r.Description)))
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
