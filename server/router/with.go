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
	"github.com/croessner/mfs/server/middleware/compression"
	"github.com/croessner/mfs/server/middleware/logging"
	mdmet "github.com/croessner/mfs/server/middleware/metrics"
	"github.com/croessner/mfs/server/telemetry"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// WithTelemetry reports every request to engine. Register it first.
func (r *Router) WithTelemetry(engine *telemetry.Engine) *Router {
	r.Engine.Use(mdmet.Collect(engine, mdmet.Options{UseFullPath: r.Cfg.RoutePatterns}))

	return r
}

// WithTracing adds OpenTelemetry spans for each request if enabled.
func (r *Router) WithTracing(enabled bool, serviceName string) *Router {
	if enabled {
		r.Engine.Use(otelgin.Middleware(serviceName))
	}

	return r
}

// WithLogging adds the access log.
func (r *Router) WithLogging() *Router {
	r.Engine.Use(logging.LoggerMiddleware(r.Logger))

	return r
}

// WithRecovery adds gin.Recovery middleware to recover from panics.
func (r *Router) WithRecovery() *Router {
	r.Engine.Use(gin.Recovery())

	return r
}

// WithResponseCompression encodes responses with the configured algorithm.
func (r *Router) WithResponseCompression() *Router {
	compression.Apply(r.Engine, r.Cfg.Compression)

	return r
}

// WithPprof registers the pprof handlers under /debug/pprof if enabled.
func (r *Router) WithPprof() *Router {
	if r.Cfg.Pprof {
		pprof.Register(r.Engine)
	}

	return r
}

// WithHandlers lets each registrar add its routes.
func (r *Router) WithHandlers(registrars ...Registrar) *Router {
	for _, registrar := range registrars {
		if registrar != nil {
			registrar.Register(r.Engine)
		}
	}

	return r
}
