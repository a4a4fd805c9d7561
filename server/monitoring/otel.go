// Copyright (C) 2026 Christian Rößner
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Package monitoring sets up OpenTelemetry tracing for the HTTP server.
package monitoring

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/croessner/mfs/server/config"
	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/log/level"

	b3prop "go.opentelemetry.io/contrib/propagators/b3"
	jaegerprop "go.opentelemetry.io/contrib/propagators/jaeger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Tracing manages the global tracer provider.
type Tracing struct {
	cfg      *config.Tracing
	instance string
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
	tp      *sdktrace.TracerProvider
}

// NewTracing returns a Tracing for cfg. Nothing happens until Start.
func NewTracing(cfg *config.Tracing, instance string, logger *slog.Logger) *Tracing {
	if logger == nil {
		logger = slog.Default()
	}

	return &Tracing{cfg: cfg, instance: instance, logger: logger}
}

// Enabled reports whether tracing is configured.
func (t *Tracing) Enabled() bool {
	return t != nil && t.cfg.IsEnabled()
}

// ServiceName returns the service name spans are reported under.
func (t *Tracing) ServiceName() string {
	var name string

	if t.cfg != nil {
		name = t.cfg.ServiceName
	}

	return ResolveServiceName(name, t.instance, definitions.ServiceName)
}

// Start installs the tracer provider and propagators. Calling it again is a no-op.
func (t *Tracing) Start(ctx context.Context, appVersion string) {
	if !t.Enabled() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return
	}

	svcName := t.ServiceName()

	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(svcName),
		semconv.ServiceVersionKey.String(appVersion),
		attribute.String(definitions.LogKeyInstance, t.instance),
	))

	ratio := t.cfg.SamplerRatio
	if ratio < 0 {
		ratio = 0
	}

	if ratio > 1 {
		ratio = 1
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithResource(res),
	}

	if strings.EqualFold(t.cfg.Exporter, "otlphttp") {
		var opts []otlptracehttp.Option

		if t.cfg.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(t.cfg.Endpoint))
		}

		if t.cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}

		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			level.Warn(t.logger).Log(definitions.LogKeyMsg, "Failed to initialize OTLP/HTTP exporter", definitions.LogKeyError, err)
		} else {
			tpOpts = append(tpOpts, sdktrace.WithBatcher(newLoggingExporter(exp, t.logger, t.cfg.LogExportResults)))
		}
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)

	otel.SetTextMapPropagator(buildPropagators(t.cfg.Propagators))
	otel.SetTracerProvider(tp)

	t.tp = tp
	t.started = true

	level.Info(t.logger).Log(definitions.LogKeyMsg, "OpenTelemetry tracing enabled", "service", svcName, "exporter", t.cfg.Exporter)
}

// Shutdown flushes pending spans and closes the tracer provider.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started || t.tp == nil {
		return nil
	}

	err := t.tp.Shutdown(ctx)

	t.started = false
	t.tp = nil

	return err
}

// loggingExporter logs export failures at warn level and, if requested, successes at info level.
type loggingExporter struct {
	delegate   sdktrace.SpanExporter
	logger     *slog.Logger
	logSuccess bool
}

func newLoggingExporter(delegate sdktrace.SpanExporter, logger *slog.Logger, logSuccess bool) sdktrace.SpanExporter {
	return &loggingExporter{delegate: delegate, logger: logger, logSuccess: logSuccess}
}

func (l *loggingExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	err := l.delegate.ExportSpans(ctx, spans)
	if err != nil {
		level.Warn(l.logger).Log(
			definitions.LogKeyMsg, "OpenTelemetry trace export failed",
			definitions.LogKeyError, err,
			"span_count", len(spans),
		)

		return err
	}

	if l.logSuccess {
		level.Info(l.logger).Log(
			definitions.LogKeyMsg, "OpenTelemetry traces exported",
			"span_count", len(spans),
		)
	}

	return nil
}

func (l *loggingExporter) Shutdown(ctx context.Context) error {
	err := l.delegate.Shutdown(ctx)
	if err != nil {
		level.Warn(l.logger).Log(definitions.LogKeyMsg, "OpenTelemetry exporter shutdown failed", definitions.LogKeyError, err)

		return err
	}

	if l.logSuccess {
		level.Info(l.logger).Log(definitions.LogKeyMsg, "OpenTelemetry exporter shutdown complete")
	}

	return nil
}

func buildPropagators(names []string) propagation.TextMapPropagator {
	var list []propagation.TextMapPropagator

	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "tracecontext":
			list = append(list, propagation.TraceContext{})
		case "baggage":
			list = append(list, propagation.Baggage{})
		case "b3":
			list = append(list, b3prop.New())
		case "b3multi":
			list = append(list, b3prop.New(b3prop.WithInjectEncoding(b3prop.B3MultipleHeader)))
		case "jaeger":
			list = append(list, jaegerprop.Jaeger{})
		}
	}

	if len(list) == 0 {
		list = append(list, propagation.TraceContext{}, propagation.Baggage{})
	}

	return propagation.NewCompositeTextMapPropagator(list...)
}
