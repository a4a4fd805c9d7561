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

package health

import (
	"context"
	"net/http"
	"time"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/log/level"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	healthzStatusUp      = "up"
	healthzStatusDown    = "down"
	healthzStatusSkipped = "skipped"
)

type HealthzCheck struct {
	Status string         `json:"status"`
	Error  string         `json:"error,omitempty"`
	Meta   map[string]any `json:"meta,omitzero"`
}

type HealthzResult struct {
	Status string                   `json:"status"`
	Checks map[string]*HealthzCheck `json:"checks"`
}

// Readiness reports 503 if the sampler should run but does not, or if redis is configured
// and does not answer.
func (h *Handler) Readiness(ctx *gin.Context) {
	result := &HealthzResult{
		Status: healthzStatusUp,
		Checks: map[string]*HealthzCheck{},
	}

	h.checkSampler(result)
	h.checkRedis(ctx.Request.Context(), result)

	statusCode := http.StatusOK

	for name, check := range result.Checks {
		if check.Status != healthzStatusDown {
			continue
		}

		result.Status = healthzStatusDown
		statusCode = http.StatusServiceUnavailable

		level.Warn(h.deps.Logger).Log(definitions.LogKeyMsg, "Readiness check failed", definitions.LogKeyCheck, name, definitions.LogKeyError, check.Error)
	}

	ctx.JSON(statusCode, result)
}

func (h *Handler) checkSampler(result *HealthzResult) {
	if h.deps.Sampler == nil || !h.deps.Sampler.SamplerWanted() {
		result.Checks["sampler"] = &HealthzCheck{Status: healthzStatusSkipped}

		return
	}

	if !h.deps.Sampler.SamplerRunning() {
		result.Checks["sampler"] = &HealthzCheck{Status: healthzStatusDown, Error: "request rate sampler is not running"}

		return
	}

	result.Checks["sampler"] = &HealthzCheck{Status: healthzStatusUp}
}

func (h *Handler) checkRedis(parent context.Context, result *HealthzResult) {
	if h.deps.Redis == nil {
		result.Checks["redis"] = &HealthzCheck{
			Status: healthzStatusSkipped,
			Error:  "redis client not configured",
		}

		return
	}

	checkRedisHandle(parent, "redis", h.deps.Redis, h.deps.RedisTimeout, result)
}

func checkRedisHandle(parent context.Context, name string, handle redis.Cmdable, timeout time.Duration, result *HealthzResult) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	start := time.Now()
	err := handle.Ping(ctx).Err()
	latency := time.Since(start).Milliseconds()

	if err != nil {
		result.Checks[name] = &HealthzCheck{
			Status: healthzStatusDown,
			Error:  err.Error(),
			Meta: map[string]any{
				"latency_ms": latency,
			},
		}

		return
	}

	result.Checks[name] = &HealthzCheck{
		Status: healthzStatusUp,
		Meta: map[string]any{
			"latency_ms": latency,
		},
	}
}
