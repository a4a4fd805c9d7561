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

package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/croessner/mfs/server/telemetry"

	"github.com/redis/go-redis/v9"
)

// PoolStatser is implemented by *redis.Client, *redis.ClusterClient and *redis.Ring.
type PoolStatser interface {
	PoolStats() *redis.PoolStats
}

// RedisPoolInfo mirrors the connection pool counters of a go-redis client.
type RedisPoolInfo struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
	StaleConns uint32 `json:"staleConns"`
}

// RedisPool returns a provider that reports the pool statistics of client under name.
// It only reads in-memory counters and never talks to the server.
func RedisPool(name string, client PoolStatser) telemetry.Provider {
	return func() telemetry.ProviderResult {
		stats := client.PoolStats()
		if stats == nil {
			return telemetry.ProviderResult{Name: name, Value: RedisPoolInfo{}}
		}

		return telemetry.ProviderResult{
			Name: name,
			Value: RedisPoolInfo{
				Hits:       stats.Hits,
				Misses:     stats.Misses,
				Timeouts:   stats.Timeouts,
				TotalConns: stats.TotalConns,
				IdleConns:  stats.IdleConns,
				StaleConns: stats.StaleConns,
			},
		}
	}
}

// PingRedis checks that the server answers within timeout.
func PingRedis(ctx context.Context, client redis.Cmdable, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	return nil
}
