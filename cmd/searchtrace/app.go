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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/AleutianAI/searchtrace/pkg/logging"
	"github.com/AleutianAI/searchtrace/services/search/algorithms"
	"github.com/AleutianAI/searchtrace/services/search/config"
	"github.com/AleutianAI/searchtrace/services/search/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// app is the per-invocation wiring: config, logger, spans, metrics and the
// runner every command executes through.
type app struct {
	cfg      config.Config
	logger   *logging.Logger
	runner   *algorithms.Runner
	registry *prometheus.Registry
	provider *sdktrace.TracerProvider
	stderr   io.Writer
}

func newApp(cmd *cobra.Command, opts *options) (*app, error) {
	if opts.format != formatJSON && opts.format != formatText {
		return nil, fmt.Errorf("unknown format %q (want %s or %s)", opts.format, formatJSON, formatText)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if cmd.Flags().Changed("parallelism") {
		cfg.Runner.Parallelism = opts.parallelism
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, stderr: cmd.ErrOrStderr()}
	a.logger = logging.New(logging.Config{
		Level:   level,
		Service: cfg.Observability.ServiceName,
		JSON:    cfg.Logging.JSON,
		Quiet:   cfg.Logging.Quiet,
		Output:  a.stderr,
	})

	tracingOn := opts.otelStdout || cfg.Observability.TracingEnabled
	if tracingOn {
		a.provider, err = observability.NewStdoutProvider(a.stderr)
		if err != nil {
			_ = a.logger.Close()
			return nil, err
		}
	}
	var metrics *observability.Metrics
	if opts.metrics || cfg.Observability.MetricsEnabled {
		a.registry = prometheus.NewRegistry()
		metrics = observability.NewMetrics(a.registry)
	}

	slogger := a.logger.Slog()
	var tracer *observability.Tracer
	if a.provider != nil {
		tracer = observability.NewTracer(a.provider, slogger, true)
	}
	a.runner = algorithms.NewRunner(
		algorithms.WithParallelism(cfg.Runner.Parallelism),
		algorithms.WithLogger(slogger),
		algorithms.WithTracer(tracer),
		algorithms.WithMetrics(metrics),
	)

	slogger.Debug("searchtrace configured",
		slog.String("command", cmd.CommandPath()),
		slog.Int("parallelism", cfg.Runner.Parallelism),
		slog.Bool("tracing", tracingOn),
		slog.Bool("metrics", a.registry != nil),
	)
	return a, nil
}

// close flushes spans, prints metrics and closes the log file.
func (a *app) close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var errs []error
	if a.provider != nil {
		if err := a.provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
	}
	if a.registry != nil {
		if err := writeMetrics(a.stderr, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if err := a.logger.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// writeMetrics encodes every gathered family in the Prometheus text
// exposition format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
