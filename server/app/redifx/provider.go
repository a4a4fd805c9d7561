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


// Package redifx owns the optional redis client whose pool statistics are reported.
package redifx

import (
	"context"
	"log/slog"

	"github.com/croessner/mfs/server/app/configfx"
	"github.com/croessner/mfs/server/config"
	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/log/level"
	"github.com/croessner/mfs/server/providers"
	"github.com/croessner/mfs/server/util"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Module provides *redis.Client. It is nil when no redis address is configured.
var Module = fx.Module("redifx",
	fx.Provide(NewClient),
)

// NewRedisClient builds a client from section without connecting. It returns nil when no
// address is configured.
func NewRedisClient(section *config.RedisSection) *redis.Client {
	if !section.HaveRedis() {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     section.Address,
		Password: section.Password,
		DB:       section.DB,
		PoolSize: section.PoolSize,
	})
}

// NewClient provides the client for the current configuration and closes it on stop. An
// unreachable server is logged but does not prevent the start.
func NewClient(lc fx.Lifecycle, cfg configfx.Provider, logger *slog.Logger) *redis.Client {
	file := cfg.Current().File

	client := NewRedisClient(file.GetRedis())
	if client == nil {
		return nil
	}

	redis.SetLogger(&util.RedisLogger{})

	if file.GetServer().Tracing.IsEnabled() {
		if err := redisotel.InstrumentTracing(client); err != nil {
			level.Warn(logger).Log(definitions.LogKeyMsg, "Redis tracing not available", definitions.LogKeyError, err)
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := providers.PingRedis(ctx, client, definitions.RedisPingTimeout); err != nil {
				level.Warn(logger).Log(
					definitions.LogKeyMsg, "Redis not reachable",
					definitions.LogKeyAddress, client.Options().Addr,
					definitions.LogKeyError, err,
				)

				return nil
			}

			level.Info(logger).Log(definitions.LogKeyMsg, "Redis connected", definitions.LogKeyAddress, client.Options().Addr)

			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return client
}
