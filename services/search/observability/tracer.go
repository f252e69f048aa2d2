// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability carries the tracing and metrics of search runs.
//
// Search algorithms themselves are pure and never touch this package; the
// runner wraps each run in a span and feeds every recorded trace event into
// the Prometheus counters defined here.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/AleutianAI/searchtrace/services/search/trace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "searchtrace.runner"

// Tracer provides OpenTelemetry spans for search runs.
//
// Thread Safety: Safe for concurrent use.
type Tracer struct {
	tracer  oteltrace.Tracer
	logger  *slog.Logger
	enabled bool
}

// NewTracer creates a tracer.
//
// Inputs:
//
//	tp - Provider to take the tracer from. Nil means the global provider.
//	logger - Logger for run start/end lines. Nil means slog.Default().
//	enabled - When false every span is a no-op.
func NewTracer(tp oteltrace.TracerProvider, logger *slog.Logger, enabled bool) *Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracer{
		tracer:  tp.Tracer(tracerName),
		logger:  logger,
		enabled: enabled,
	}
}

// StartRun starts the span of one search run.
//
// Outputs:
//
//	context.Context - Context carrying the span.
//	oteltrace.Span - The span; a no-op span when tracing is disabled.
func (t *Tracer) StartRun(ctx context.Context, name, algorithm string) (context.Context, oteltrace.Span) {
	if t == nil || !t.enabled {
		return ctx, noop.Span{}
	}
	ctx, span := t.tracer.Start(ctx, "search."+algorithm,
		oteltrace.WithAttributes(
			attribute.String("search.run", name),
			attribute.String("search.algorithm", algorithm),
		),
		oteltrace.WithSpanKind(oteltrace.SpanKindInternal),
	)
	t.logger.DebugContext(ctx, "search run started",
		slog.String("run", name),
		slog.String("algorithm", algorithm),
	)
	return ctx, span
}

// EndRun records the outcome of a run on its span and ends it.
//
// Inputs:
//
//	span - The span returned by StartRun.
//	tr - The exported trace. Ignored when err is non-nil.
//	err - Invocation error, if the run was rejected.
func (t *Tracer) EndRun(span oteltrace.Span, tr trace.Trace, err error) {
	if span == nil {
		return
	}
	defer span.End()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(
		attribute.String("search.outcome", string(tr.Outcome)),
		attribute.Int("search.events", len(tr.Events)),
		attribute.String("search.run_id", tr.RunID),
	)
	for _, kind := range []trace.Kind{trace.KindExpand, trace.KindVisit, trace.KindConflictDetected, trace.KindPrune} {
		if n := tr.Count(kind); n > 0 {
			span.SetAttributes(attribute.Int("search.events."+kind.String(), n))
		}
	}
	span.SetStatus(codes.Ok, "")
}

// NewStdoutProvider builds a tracer provider that pretty-prints finished
// spans to w. Callers own the provider and must Shutdown it.
func NewStdoutProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	), nil
}
