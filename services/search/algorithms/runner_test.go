// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package algorithms_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/AleutianAI/searchtrace/services/search/algorithms"
	"github.com/AleutianAI/searchtrace/services/search/observability"
	"github.com/AleutianAI/searchtrace/services/search/scenarios"
	"github.com/AleutianAI/searchtrace/services/search/trace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunner_RunAllScenarios(t *testing.T) {
	jobs, unknown := scenarios.Jobs()
	require.Empty(t, unknown)

	r := algorithms.NewRunner(algorithms.WithParallelism(3), algorithms.WithLogger(quietLogger()))
	reports, err := r.RunAll(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, reports, len(jobs))

	for i, rep := range reports {
		assert.Equal(t, jobs[i].Name, rep.Name, "reports keep job order")
		assert.NoError(t, rep.Err, rep.Name)
		assert.True(t, rep.Succeeded(), rep.Name)
		assert.Equal(t, jobs[i].Algorithm, rep.Trace.Algorithm)
		assert.NotEmpty(t, rep.Trace.RunID)
		for j, e := range rep.Trace.Events {
			assert.Equal(t, j+1, e.Sequence, "%s event %d", rep.Name, j)
		}
	}

	stats := r.Stats()
	assert.Equal(t, len(jobs), stats.Started)
	assert.Equal(t, len(jobs), stats.Completed)
	assert.Zero(t, stats.Pending)
}

func TestRunner_ConcurrentRunsMatchSequential(t *testing.T) {
	s, ok := scenarios.Lookup("romania-astar")
	require.True(t, ok)

	want := trace.NewRecorder()
	_, err := s.Run(want)
	require.NoError(t, err)

	jobs := make([]algorithms.Job, 8)
	for i := range jobs {
		jobs[i] = s.Job()
	}
	reports, err := algorithms.NewRunner(algorithms.WithLogger(quietLogger())).RunAll(context.Background(), jobs)
	require.NoError(t, err)

	for _, rep := range reports {
		assert.Equal(t, want.Events(), rep.Trace.Events)
	}
}

func TestRunner_FailedRunDoesNotStopOthers(t *testing.T) {
	boom := errors.New("boom")
	jobs := []algorithms.Job{
		{Name: "fails", Algorithm: "dfs", Run: func(*trace.Recorder) (trace.Outcome, error) { return "", boom }},
		{Name: "missing", Algorithm: "bfs"},
	}
	good, _ := scenarios.Jobs("tree-bfs")
	jobs = append(jobs, good...)

	reports, err := algorithms.NewRunner(algorithms.WithLogger(quietLogger())).RunAll(context.Background(), jobs)
	require.NoError(t, err)

	assert.ErrorIs(t, reports[0].Err, boom)
	assert.False(t, reports[0].Succeeded())
	assert.ErrorIs(t, reports[1].Err, algorithms.ErrInvalidInput)
	assert.True(t, reports[2].Succeeded())
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs, _ := scenarios.Jobs("tree-dfs", "tree-bfs")
	reports, err := algorithms.NewRunner(algorithms.WithLogger(quietLogger())).RunAll(ctx, jobs)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, reports, 2)
	for _, rep := range reports {
		assert.ErrorIs(t, rep.Err, context.Canceled)
	}
}

func TestRunner_MetricsAndSpans(t *testing.T) {
	reg := prometheus.NewRegistry()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r := algorithms.NewRunner(
		algorithms.WithLogger(quietLogger()),
		algorithms.WithMetrics(observability.NewMetrics(reg)),
		algorithms.WithTracer(observability.NewTracer(tp, quietLogger(), true)),
	)

	jobs, _ := scenarios.Jobs("game-alphabeta")
	jobs = append(jobs, algorithms.Job{Name: "broken", Algorithm: "minimax"})
	reports, err := r.RunAll(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	events, err := testutil.GatherAndCount(reg, "searchtrace_trace_events_total")
	require.NoError(t, err)
	assert.Positive(t, events)
	runs, err := testutil.GatherAndCount(reg, "searchtrace_runner_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
	rejected, err := testutil.GatherAndCount(reg, "searchtrace_runner_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, rejected)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	byName := make(map[string]sdktrace.ReadOnlySpan)
	for _, s := range spans {
		byName[s.Name()] = s
	}
	assert.Equal(t, codes.Ok, byName["search.alphabeta"].Status().Code)
	assert.Equal(t, codes.Error, byName["search.minimax"].Status().Code)
}
