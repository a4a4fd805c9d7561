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

package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/croessner/mfs/server/config"
	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/handler/health"
	"github.com/croessner/mfs/server/handler/metrics"
	"github.com/croessner/mfs/server/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, cfg *config.ServerSection) (*gin.Engine, *telemetry.Engine) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine := telemetry.New(telemetry.WithLogger(logger))
	require.NoError(t, engine.Configure(telemetry.Config{Totals: true, Methods: true}))

	router := NewRouter(cfg, logger).
		WithTelemetry(engine).
		WithTracing(cfg.Tracing.IsEnabled(), "mfs-test").
		WithLogging().
		WithRecovery().
		WithResponseCompression().
		WithPprof().
		WithHandlers(
			health.New(health.Deps{Logger: logger}),
			metrics.New(engine, logger, metrics.Options{InfoPath: cfg.InfoPath}),
		).
		Build()

	return router, engine
}

func get(router http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)

	for key, values := range header {
		req.Header[key] = values
	}

	router.ServeHTTP(recorder, req)

	return recorder
}

func TestRouterServesPingAndInfo(t *testing.T) {
	router, engine := build(t, &config.ServerSection{InfoPath: definitions.DefaultInfoPath})

	assert.Equal(t, http.StatusOK, get(router, "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, get(router, definitions.DefaultInfoPath, nil).Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/debug/pprof/", nil).Code)

	counters, _ := engine.Counters()
	assert.Equal(t, telemetry.Counters{Total: 3, Success: 2, Failure: 1}, counters)

	routes, _ := engine.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, definitions.PingRouteName, routes[0].Name)
	assert.Equal(t, definitions.DefaultInfoPath, routes[1].Name)
	assert.Equal(t, "/debug/pprof/", routes[2].Name)
}

func TestRouterOptionalMiddlewares(t *testing.T) {
	cfg := &config.ServerSection{
		Compression:   config.Compression{Enabled: true, Algorithms: []string{"gzip"}},
		Pprof:         true,
		RoutePatterns: true,
		Tracing:       config.Tracing{Enabled: true},
	}

	router, engine := build(t, cfg)

	recorder := get(router, "/ping", http.Header{"Accept-Encoding": {"gzip"}})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "gzip", recorder.Header().Get("Content-Encoding"))

	assert.Equal(t, http.StatusOK, get(router, "/debug/pprof/cmdline", nil).Code)

	routes, _ := engine.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/debug/pprof/cmdline", routes[1].Name)
}
