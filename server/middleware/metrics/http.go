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
	"net/http"

	"github.com/croessner/mfs/server/telemetry"

	"github.com/felixge/httpsnoop"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Wrap instruments a plain net/http handler. The status code is captured without
// hiding optional interfaces such as http.Flusher of the original writer.
func Wrap(engine *telemetry.Engine, next http.Handler) http.Handler {
	if engine == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := engine.BeginRequest(r.URL.RequestURI())
		if rc != nil {
			r = r.WithContext(telemetry.NewContext(r.Context(), rc))
		}

		m := httpsnoop.CaptureMetricsFn(w, func(ww http.ResponseWriter) {
			next.ServeHTTP(ww, r)
		})

		engine.EndRequest(rc, m.Code, r)
	})
}

// WrapTraced is Wrap with an OpenTelemetry server span named operation around next. The
// span covers the handler only; telemetry timing starts before it.
func WrapTraced(engine *telemetry.Engine, operation string, next http.Handler) http.Handler {
	return Wrap(engine, otelhttp.NewHandler(next, operation))
}

// SetRequestRouteName renames the route of a request that went through Wrap.
func SetRequestRouteName(r *http.Request, name string) {
	telemetry.SetRouteName(telemetry.FromContext(r.Context()), name)
}

// WithRouteName wraps next so that requests are recorded under name.
func WithRouteName(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetRequestRouteName(r, name)

		next.ServeHTTP(w, r)
	})
}
