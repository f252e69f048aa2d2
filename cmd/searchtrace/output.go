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
	"encoding/json"
	"fmt"
	"io"

	"github.com/AleutianAI/searchtrace/pkg/ux"
	"github.com/AleutianAI/searchtrace/services/search/algorithms"
	"github.com/AleutianAI/searchtrace/services/search/trace"
)

const (
	formatJSON = "json"
	formatText = "text"
)

// writeTrace prints one trace in the selected format.
func writeTrace(w io.Writer, format string, tr trace.Trace) error {
	if format == formatText {
		return ux.NewTraceRenderer(w).Render(tr)
	}
	return tr.Encode(w)
}

// writeReports prints a batch: a JSON array of traces, or a summary table
// followed by every trace as text.
func writeReports(w io.Writer, format string, reports []algorithms.Report) error {
	if format != formatText {
		traces := make([]trace.Trace, 0, len(reports))
		for _, r := range reports {
			if r.Err == nil {
				traces = append(traces, r.Trace)
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(traces)
	}

	rows := make([]ux.RunSummary, len(reports))
	for i, r := range reports {
		rows[i] = ux.RunSummary{
			Name:      r.Name,
			Algorithm: r.Trace.Algorithm,
			Outcome:   r.Trace.Outcome,
			Events:    len(r.Trace.Events),
			Duration:  r.Duration,
			Err:       r.Err,
		}
	}
	if err := ux.RenderSummary(w, rows, ux.IsTerminal(w)); err != nil {
		return err
	}
	for _, r := range reports {
		if r.Err != nil {
			continue
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := ux.NewTraceRenderer(w).Render(r.Trace); err != nil {
			return err
		}
	}
	return nil
}
