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

package telemetry

import (
	"context"
	"time"
)

// RequestContext carries the timing and route name of one in-flight request.
// It belongs to a single request and is not safe for concurrent use.
type RequestContext struct {
	start     time.Time
	routeName string
}

// Start returns the time the request began.
func (rc *RequestContext) Start() time.Time {
	return rc.start
}

// RouteName returns the name the request is aggregated under.
func (rc *RequestContext) RouteName() string {
	return rc.routeName
}

// SetRouteName renames the route of rc. Any string is accepted. A nil rc means route
// tracking is disabled and the call does nothing.
func SetRouteName(rc *RequestContext, name string) {
	if rc == nil {
		return
	}

	rc.routeName = name
}

type requestContextKey struct{}

// NewContext returns a copy of ctx carrying rc.
func NewContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// FromContext returns the RequestContext stored in ctx or nil.
func FromContext(ctx context.Context) *RequestContext {
	if ctx == nil {
		return nil
	}

	rc, _ := ctx.Value(requestContextKey{}).(*RequestContext)

	return rc
}
