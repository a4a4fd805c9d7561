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

package monitoring

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/croessner/mfs/server/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func withGlobalOtelSaved(t *testing.T) {
	t.Helper()

	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()

	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTracingDisabledIsNoop(t *testing.T) {
	withGlobalOtelSaved(t)

	tracing := NewTracing(&config.Tracing{}, "mfs-1", discard())
	tracing.Start(context.Background(), "test")

	assert.False(t, tracing.Enabled())
	assert.False(t, tracing.started)
	assert.NoError(t, tracing.Shutdown(context.Background()))

	var nilTracing *Tracing
	assert.False(t, nilTracing.Enabled())
	assert.NoError(t, nilTracing.Shutdown(context.Background()))
}

func TestTracingStartWithoutExporter(t *testing.T) {
	withGlobalOtelSaved(t)

	tracing := NewTracing(&config.Tracing{
		Enabled:      true,
		Exporter:     "none",
		SamplerRatio: 1.5,
		Propagators:  []string{"tracecontext", "b3"},
	}, "mfs-1", discard())

	tracing.Start(context.Background(), "v0.0.1")
	require.True(t, tracing.started)
	require.NotNil(t, tracing.tp)

	tracing.Start(context.Background(), "v0.0.1")
	assert.Same(t, tracing.tp, otel.GetTracerProvider())

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Greater(t, len(fields), 2)

	assert.NoError(t, tracing.Shutdown(context.Background()))
	assert.False(t, tracing.started)
}

func TestTracingOTLPExporterDoesNotConnectOnStart(t *testing.T) {
	withGlobalOtelSaved(t)

	tracing := NewTracing(&config.Tracing{
		Enabled:  true,
		Exporter: "otlphttp",
		Endpoint: "localhost:4318",
		Insecure: true,
	}, "mfs-1", discard())

	tracing.Start(context.Background(), "v0.0.1")
	assert.True(t, tracing.started)
	assert.Equal(t, "mfs-1", tracing.ServiceName())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_ = tracing.Shutdown(ctx)
}

func TestBuildPropagatorsDefault(t *testing.T) {
	fields := buildPropagators([]string{"unknown"}).Fields()

	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}
