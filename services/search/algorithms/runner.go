// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package algorithms

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/AleutianAI/searchtrace/services/search/observability"
	"github.com/AleutianAI/searchtrace/services/search/trace"
	"golang.org/x/sync/errgroup"
)

// -----------------------------------------------------------------------------
// Job / Report
// -----------------------------------------------------------------------------

// Job is one independent search run.
type Job struct {
	// Name identifies the run in logs, spans and reports.
	Name string

	// Algorithm is the procedure name recorded in the trace.
	Algorithm string

	// Run executes the search against its own recorder.
	Run func(rec *trace.Recorder) (trace.Outcome, error)
}

// Report is the result of one Job.
type Report struct {
	Name     string
	Trace    trace.Trace
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the run was accepted and ended normally.
func (r Report) Succeeded() bool {
	return r.Err == nil && r.Trace.Outcome.Succeeded()
}

// -----------------------------------------------------------------------------
// Runner
// -----------------------------------------------------------------------------

// Runner executes independent search runs in goroutines.
//
// Description:
//
//	Each Job gets its own trace.Recorder, so runs share nothing but the
//	immutable problem models they read. A run that fails never stops the
//	others; its error is kept in its Report.
//
// Thread Safety: Safe for concurrent use.
type Runner struct {
	parallelism int
	logger      *slog.Logger
	tracer      *observability.Tracer
	metrics     *observability.Metrics

	mu        sync.Mutex
	started   int
	completed int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithParallelism bounds the number of concurrent runs. Values below 1 mean
// one run per job.
func WithParallelism(n int) RunnerOption {
	return func(r *Runner) { r.parallelism = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l.With(slog.String("component", "search_runner"))
		}
	}
}

// WithTracer sets the span source.
func WithTracer(t *observability.Tracer) RunnerOption {
	return func(r *Runner) { r.tracer = t }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner creates a runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger: slog.Default().With(slog.String("component", "search_runner")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a single job on the calling goroutine.
func (r *Runner) Run(ctx context.Context, job Job) Report {
	r.mu.Lock()
	r.started++
	r.mu.Unlock()

	report := r.run(ctx, job)

	r.mu.Lock()
	r.completed++
	r.mu.Unlock()
	return report
}

func (r *Runner) run(ctx context.Context, job Job) Report {
	ctx, span := r.tracer.StartRun(ctx, job.Name, job.Algorithm)

	rec := trace.NewRecorder(trace.WithHook(func(e trace.Event) {
		r.metrics.ObserveEvent(job.Algorithm, e.Kind)
	}))

	start := time.Now()
	var (
		outcome trace.Outcome
		err     error
	)
	if job.Run == nil {
		err = Invalid(job.Algorithm, "Run", ErrInvalidInput, "job %q has no run function", job.Name)
	} else {
		outcome, err = job.Run(rec)
	}
	elapsed := time.Since(start)

	report := Report{
		Name:     job.Name,
		Trace:    rec.Export(job.Algorithm, outcome),
		Err:      err,
		Duration: elapsed,
	}

	r.tracer.EndRun(span, report.Trace, err)
	r.metrics.ObserveRun(job.Algorithm, outcome, elapsed, err)

	if err != nil {
		r.logger.WarnContext(ctx, "search run rejected",
			slog.String("run", job.Name),
			slog.String("algorithm", job.Algorithm),
			slog.String("error", err.Error()),
		)
	} else {
		r.logger.DebugContext(ctx, "search run completed",
			slog.String("run", job.Name),
			slog.String("algorithm", job.Algorithm),
			slog.String("outcome", string(outcome)),
			slog.Int("events", len(report.Trace.Events)),
			slog.Duration("duration", elapsed),
		)
	}
	return report
}

// RunAll executes jobs concurrently and returns their reports in job order.
//
// Description:
//
//	Jobs not yet started when ctx is cancelled are skipped and RunAll
//	returns ctx.Err() with the reports gathered so far. Failed runs never
//	cancel their siblings.
//
// Outputs:
//
//	[]Report - One report per job, in job order. Skipped jobs carry the
//	           context error.
//	error - Non-nil only when ctx was cancelled.
func (r *Runner) RunAll(ctx context.Context, jobs []Job) ([]Report, error) {
	reports := make([]Report, len(jobs))

	g, gCtx := errgroup.WithContext(ctx)
	if r.parallelism > 0 {
		g.SetLimit(r.parallelism)
	}

	for i, job := range jobs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				reports[i] = Report{Name: job.Name, Err: err}
				return nil
			}
			reports[i] = r.Run(gCtx, job)
			return nil // run errors stay in the report
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return reports, err
	}
	return reports, nil
}

// Stats returns execution statistics.
func (r *Runner) Stats() RunnerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return RunnerStats{
		Started:   r.started,
		Completed: r.completed,
		Pending:   r.started - r.completed,
	}
}

// RunnerStats contains runner execution statistics.
type RunnerStats struct {
	Started   int
	Completed int
	Pending   int
}
