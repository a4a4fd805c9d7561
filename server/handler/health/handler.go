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

// Package health serves the liveness and readiness endpoints.
package health

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/handler/common"
	"github.com/croessner/mfs/server/middleware/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// SamplerState reports whether the request rate sampler runs and whether it should.
type SamplerState interface {
	SamplerRunning() bool
	SamplerWanted() bool
}

// Deps are the optional dependencies of the readiness check.
type Deps struct {
	Logger       *slog.Logger
	Sampler      SamplerState
	Redis        redis.Cmdable
	RedisTimeout time.Duration
}

// Handler registers /ping and /healthz.
type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	if deps.RedisTimeout <= 0 {
		deps.RedisTimeout = definitions.RedisPingTimeout
	}

	return &Handler{deps: deps}
}

func (h *Handler) Register(r gin.IRouter) {
	r.Any("/ping", metrics.RouteName(definitions.PingRouteName), Ping)
	r.GET("/healthz", h.Readiness)
}

// Ping answers {"message":"pong"} to GET requests that accept JSON.
func Ping(ctx *gin.Context) {
	if !common.RequireJSONGet(ctx) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}
