// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package observability

import (
	"time"

	"github.com/AleutianAI/searchtrace/services/search/trace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// knownAlgorithms bounds the "algorithm" label. Anything else is recorded
// as "unknown".
var knownAlgorithms = map[string]bool{
	"dfs":            true,
	"bfs":            true,
	"astar":          true,
	"backtracking":   true,
	"hill_climbing":  true,
	"minimax":        true,
	"alphabeta":      true,
	"random_restart": true,
}

func sanitizeAlgorithm(name string) string {
	if knownAlgorithms[name] {
		return name
	}
	return "unknown"
}

// Metrics holds the Prometheus collectors for search runs.
//
// A nil *Metrics is valid and records nothing.
//
// Thread Safety: Safe for concurrent use.
type Metrics struct {
	runs     *prometheus.CounterVec
	events   *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the search collectors on reg.
//
// Inputs:
//
//	reg - Registerer to use. Nil means prometheus.DefaultRegisterer.
//
// Outputs:
//
//	*Metrics - The collectors. Panics if they are already registered on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "searchtrace",
				Subsystem: "runner",
				Name:      "runs_total",
				Help:      "Total search runs by algorithm and outcome",
			},
			[]string{"algorithm", "outcome"},
		),
		events: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "searchtrace",
				Subsystem: "trace",
				Name:      "events_total",
				Help:      "Total trace events recorded by algorithm and kind",
			},
			[]string{"algorithm", "kind"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "searchtrace",
				Subsystem: "runner",
				Name:      "errors_total",
				Help:      "Total rejected search invocations by algorithm",
			},
			[]string{"algorithm"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "searchtrace",
				Subsystem: "runner",
				Name:      "run_duration_seconds",
				Help:      "Search run duration in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"algorithm"},
		),
	}
}

// ObserveEvent counts one recorded trace event.
func (m *Metrics) ObserveEvent(algorithm string, kind trace.Kind) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(sanitizeAlgorithm(algorithm), kind.String()).Inc()
}

// ObserveRun records a finished run. A non-nil err counts as a rejected
// invocation and the outcome is ignored.
func (m *Metrics) ObserveRun(algorithm string, outcome trace.Outcome, d time.Duration, err error) {
	if m == nil {
		return
	}
	algo := sanitizeAlgorithm(algorithm)
	m.duration.WithLabelValues(algo).Observe(d.Seconds())
	if err != nil {
		m.errors.WithLabelValues(algo).Inc()
		return
	}
	m.runs.WithLabelValues(algo, string(outcome)).Inc()
}
