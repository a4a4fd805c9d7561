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

// Package metrics connects HTTP handlers to the telemetry engine.
package metrics

import (
	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/telemetry"

	"github.com/gin-gonic/gin"
)

// Options tune the gin middleware.
type Options struct {
	// UseFullPath names routes after the matched gin pattern, e.g. "/users/:id",
	// instead of the raw request URI.
	UseFullPath bool
}

// Collect returns a gin middleware that reports every request to engine. It should be
// registered first, so that it also sees the status written by the recovery middleware.
func Collect(engine *telemetry.Engine, opts Options) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if engine == nil {
			ctx.Next()

			return
		}

		name := ctx.Request.URL.RequestURI()
		if opts.UseFullPath && ctx.FullPath() != "" {
			name = ctx.FullPath()
		}

		rc := engine.BeginRequest(name)
		if rc != nil {
			ctx.Set(definitions.CtxTelemetryKey, rc)
			ctx.Request = ctx.Request.WithContext(telemetry.NewContext(ctx.Request.Context(), rc))
		}

		ctx.Next()

		engine.EndRequest(rc, ctx.Writer.Status(), ctx.Request)
	}
}

// RequestContext returns the telemetry context stored by Collect, or nil.
func RequestContext(ctx *gin.Context) *telemetry.RequestContext {
	value, exists := ctx.Get(definitions.CtxTelemetryKey)
	if !exists {
		return nil
	}

	rc, _ := value.(*telemetry.RequestContext)

	return rc
}

// SetRouteName renames the route of the current request. It does nothing when route
// tracking is disabled.
func SetRouteName(ctx *gin.Context, name string) {
	telemetry.SetRouteName(RequestContext(ctx), name)
}

// RouteName returns a middleware that assigns name to every request it sees.
func RouteName(name string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		telemetry.SetRouteName(RequestContext(ctx), name)

		ctx.Next()
	}
}
