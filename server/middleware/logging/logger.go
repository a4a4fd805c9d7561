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

package logging

import (
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/log"
	"github.com/croessner/mfs/server/log/level"
	"github.com/croessner/mfs/server/middleware/metrics"
	"github.com/croessner/mfs/server/util"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
)

// LoggerMiddleware logs one line per HTTP request with latency, client details and the
// telemetry route name. Each request gets a unique GUID.
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var logWrapper func(logger *slog.Logger) level.Logger

		guid := ksuid.New().String()
		ctx.Set(definitions.CtxGUIDKey, guid)

		start := time.Now()

		ctx.Next()

		err := ctx.Errors.Last()

		switch {
		case err != nil && ctx.Writer.Status() >= 500:
			logWrapper = level.Error
		case err != nil:
			logWrapper = level.Warn
		default:
			logWrapper = level.Info
		}

		latency := time.Since(start)

		negotiatedProtocol := definitions.NotAvailable
		if ctx.Request.TLS != nil {
			negotiatedProtocol = tls.VersionName(ctx.Request.TLS.Version)
		}

		route := definitions.NotAvailable
		if rc := metrics.RequestContext(ctx); rc != nil {
			route = rc.RouteName()
		}

		if logger == nil {
			logger = log.Logger
		}

		logWrapper(logger).Log(
			definitions.LogKeyGUID, guid,
			definitions.LogKeyClientIP, ctx.ClientIP(),
			definitions.LogKeyMethod, ctx.Request.Method,
			definitions.LogKeyProtocol, ctx.Request.Proto,
			definitions.LogKeyTLSVersion, negotiatedProtocol,
			definitions.LogKeyHTTPStatus, ctx.Writer.Status(),
			definitions.LogKeyLatency, util.FormatDurationMs(latency),
			definitions.LogKeyUserAgent, func() string {
				if ctx.Request.UserAgent() != "" {
					return ctx.Request.UserAgent()
				}

				return definitions.NotAvailable
			}(),
			definitions.LogKeyUriPath, ctx.Request.URL.Path,
			definitions.LogKeyRoute, route,
			definitions.LogKeyMsg, func() string {
				if err != nil {
					return err.Error()
				}

				return "HTTP request"
			}(),
		)
	}
}
