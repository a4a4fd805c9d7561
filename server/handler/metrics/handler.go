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

// Package metrics serves the telemetry snapshot as JSON and in the Prometheus format.
package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/handler/common"
	"github.com/croessner/mfs/server/log/level"
	mdmetrics "github.com/croessner/mfs/server/middleware/metrics"
	"github.com/croessner/mfs/server/stats"
	"github.com/croessner/mfs/server/telemetry"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"
)

const snapshotKey = "snapshot"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Options configure the endpoints. An empty path disables the endpoint.
type Options struct {
	InfoPath       string
	PrometheusPath string

	// CacheTTL keeps the encoded snapshot for this long. Zero runs the providers on every request.
	CacheTTL time.Duration
}

// Handler registers the info and Prometheus endpoints.
type Handler struct {
	engine   *telemetry.Engine
	logger   *slog.Logger
	opts     Options
	cache    *cache.Cache
	group    singleflight.Group
	registry *prometheus.Registry
}

func New(engine *telemetry.Engine, logger *slog.Logger, opts Options) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		engine:   engine,
		logger:   logger,
		opts:     opts,
		registry: prometheus.NewRegistry(),
	}

	if opts.CacheTTL > 0 {
		h.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}

	h.registry.MustRegister(
		stats.NewCollector(engine),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return h
}

// Registry returns the registry behind the Prometheus endpoint.
func (h *Handler) Registry() *prometheus.Registry {
	return h.registry
}

func (h *Handler) Register(router gin.IRouter) {
	if h.opts.InfoPath != "" {
		router.Any(h.opts.InfoPath, h.Info)
	}

	if h.opts.PrometheusPath != "" {
		promHandler := promhttp.HandlerFor(
			h.registry,
			promhttp.HandlerOpts{DisableCompression: true},
		)

		router.GET(h.opts.PrometheusPath, mdmetrics.RouteName(definitions.PrometheusRouteName), gin.WrapH(promHandler))
	}
}

// Info answers GET requests that accept JSON with the current snapshot. A request whose
// route name is empty is recorded as "mfs_metrics".
func (h *Handler) Info(ctx *gin.Context) {
	if rc := mdmetrics.RequestContext(ctx); rc != nil && rc.RouteName() == "" {
		telemetry.SetRouteName(rc, definitions.InfoRouteName)
	}

	if !common.RequireJSONGet(ctx) {
		return
	}

	body, err := h.snapshotBody()
	if err != nil {
		level.Error(h.logger).Log(definitions.LogKeyMsg, "Failed to encode telemetry snapshot", definitions.LogKeyError, err)

		_ = ctx.AbortWithError(http.StatusInternalServerError, err)

		return
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (h *Handler) snapshotBody() ([]byte, error) {
	if h.cache == nil {
		return json.Marshal(h.engine.Snapshot())
	}

	if cached, found := h.cache.Get(snapshotKey); found {
		return cached.([]byte), nil
	}

	value, err, _ := h.group.Do(snapshotKey, func() (any, error) {
		if cached, found := h.cache.Get(snapshotKey); found {
			return cached, nil
		}

		body, err := json.Marshal(h.engine.Snapshot())
		if err != nil {
			return nil, err
		}

		h.cache.SetDefault(snapshotKey, body)

		return body, nil
	})
	if err != nil {
		return nil, err
	}

	return value.([]byte), nil
}
