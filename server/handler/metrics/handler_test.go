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

package metrics

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/croessner/mfs/server/definitions"
	mdmetrics "github.com/croessner/mfs/server/middleware/metrics"
	"github.com/croessner/mfs/server/sysinfo"
	"github.com/croessner/mfs/server/telemetry"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct{}

func (fakeHost) Memory() sysinfo.MemoryUsage { return sysinfo.MemoryUsage{RSS: 1} }

func (fakeHost) Load() sysinfo.LoadAverages { return sysinfo.LoadAverages{Load1: 1} }

type fixture struct {
	engine *telemetry.Engine
	router *gin.Engine
	calls  *atomic.Int32
}

func newFixture(t *testing.T, opts Options) fixture {
	t.Helper()

	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	calls := &atomic.Int32{}

	engine := telemetry.New(telemetry.WithClock(clock.NewMock()), telemetry.WithHostReader(fakeHost{}), telemetry.WithLogger(logger))
	require.NoError(t, engine.Configure(telemetry.Config{
		Totals:  true,
		Methods: true,
		ExtraInfo: []telemetry.Provider{func() telemetry.ProviderResult {
			return telemetry.ProviderResult{Name: "calls", Value: calls.Add(1)}
		}},
	}))

	router := gin.New()
	router.Use(mdmetrics.Collect(engine, mdmetrics.Options{}))

	New(engine, logger, opts).Register(router)

	return fixture{engine: engine, router: router, calls: calls}
}

func (f fixture) do(method, target, accept string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)

	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	f.router.ServeHTTP(recorder, req)

	return recorder
}

func defaultOptions() Options {
	return Options{InfoPath: definitions.DefaultInfoPath, PrometheusPath: definitions.DefaultPrometheusPath}
}

func TestInfoReturnsSnapshot(t *testing.T) {
	f := newFixture(t, defaultOptions())

	recorder := f.do(http.MethodGet, definitions.DefaultInfoPath, "application/json")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.Equal(t, map[string]any{"total": 0.0, "success": 0.0, "failure": 0.0}, body[telemetry.FieldRequests])
	assert.Equal(t, map[string]any{"load1": 1.0, "load5": 0.0, "load15": 0.0}, body[telemetry.FieldLoadAverages])
	assert.Equal(t, 1.0, body["calls"])
	assert.Equal(t, []any{}, body[telemetry.FieldMethods])
	assert.NotContains(t, body, telemetry.FieldAvgRPS)

	routes, _ := f.engine.Routes()
	assert.Equal(t, []telemetry.RouteStat{{Name: definitions.DefaultInfoPath, Count: 1}}, routes)
}

func TestInfoRejectsOtherMethods(t *testing.T) {
	f := newFixture(t, defaultOptions())

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, definitions.DefaultInfoPath, "application/json").Code)

	counters, _ := f.engine.Counters()
	assert.Equal(t, telemetry.Counters{Total: 1, Failure: 1}, counters)

	routes, _ := f.engine.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, definitions.DefaultInfoPath, routes[0].Name)
	assert.Zero(t, f.calls.Load())
}

func TestInfoRequiresJSON(t *testing.T) {
	f := newFixture(t, defaultOptions())

	assert.Equal(t, http.StatusNotAcceptable, f.do(http.MethodGet, definitions.DefaultInfoPath, "text/html").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, definitions.DefaultInfoPath, "").Code)
}

func TestInfoKeepsExplicitRouteName(t *testing.T) {
	f := newFixture(t, Options{})

	h := New(f.engine, nil, Options{})
	f.router.GET("/custom", mdmetrics.RouteName("custom"), h.Info)

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/custom", "application/json").Code)

	routes, _ := f.engine.Routes()
	assert.Equal(t, "custom", routes[0].Name)
}

func TestInfoNamesUnnamedRequest(t *testing.T) {
	f := newFixture(t, Options{})

	h := New(f.engine, nil, Options{})
	f.router.GET("/unnamed", mdmetrics.RouteName(""), h.Info)

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/unnamed", "application/json").Code)

	routes, _ := f.engine.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, definitions.InfoRouteName, routes[0].Name)
}

func TestInfoRunsProvidersPerRequestWithoutCache(t *testing.T) {
	f := newFixture(t, defaultOptions())

	f.do(http.MethodGet, definitions.DefaultInfoPath, "")
	f.do(http.MethodGet, definitions.DefaultInfoPath, "")

	assert.Equal(t, int32(2), f.calls.Load())
}

func TestInfoCache(t *testing.T) {
	opts := defaultOptions()
	opts.CacheTTL = time.Minute

	f := newFixture(t, opts)

	first := f.do(http.MethodGet, definitions.DefaultInfoPath, "")
	second := f.do(http.MethodGet, definitions.DefaultInfoPath, "")

	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestPrometheusEndpoint(t *testing.T) {
	f := newFixture(t, defaultOptions())

	f.do(http.MethodGet, definitions.DefaultInfoPath, "")

	recorder := f.do(http.MethodGet, definitions.DefaultPrometheusPath, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, `mfs_requests_total{result="success"} 1`)
	assert.Contains(t, body, `mfs_route_calls_total{route="/mfs/metrics"} 1`)
	assert.Contains(t, body, "mfs_uptime_seconds")
	assert.Contains(t, body, "go_goroutines")
}

func TestDisabledPaths(t *testing.T) {
	f := newFixture(t, Options{})

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, definitions.DefaultInfoPath, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, definitions.DefaultPrometheusPath, "").Code)
}
