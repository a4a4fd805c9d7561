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


package telemetryfx

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/croessner/mfs/server/app/configfx"
	"github.com/croessner/mfs/server/app/reloadfx"
	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/log/level"
	"github.com/croessner/mfs/server/stats"
	"github.com/croessner/mfs/server/telemetry"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Module provides the engine, configures it on start and on reload and stops it on shutdown.
var Module = fx.Module("telemetryfx",
	fx.Provide(
		NewEngine,
		fx.Annotate(
			NewReloader,
			fx.As(new(reloadfx.Reloadable)),
			fx.ResultTags(`group:"reloadables"`),
		),
	),
	fx.Invoke(registerLifecycle),
)

// NewEngine returns an engine logging to logger. It collects nothing until configured.
func NewEngine(logger *slog.Logger) *telemetry.Engine {
	return telemetry.New(telemetry.WithLogger(logger))
}

type lifecycleIn struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    configfx.Provider
	Engine    *telemetry.Engine
	Logger    *slog.Logger
	Redis     *redis.Client `optional:"true"`
}

func registerLifecycle(in lifecycleIn) {
	in.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			cfg, err := BuildConfig(in.Config.Current().File.GetTelemetry(), ProviderDeps{Logger: in.Logger, Redis: in.Redis})
			if err != nil {
				return err
			}

			return in.Engine.Configure(cfg)
		},
		OnStop: func(ctx context.Context) error {
			err := in.Engine.Stop(ctx)

			stats.LogSummary(in.Logger, in.Engine.Snapshot())

			return err
		},
	})
}

// Reloader reconfigures the engine when the telemetry section changed. Reconfiguring
// discards all collected figures, so an unchanged section leaves the engine alone.
type Reloader struct {
	engine *telemetry.Engine
	logger *slog.Logger
	redis  *redis.Client
}

type reloaderIn struct {
	fx.In

	Engine *telemetry.Engine
	Logger *slog.Logger
	Redis  *redis.Client `optional:"true"`
}

func NewReloader(in reloaderIn) *Reloader {
	return &Reloader{engine: in.Engine, logger: in.Logger, redis: in.Redis}
}

func (r *Reloader) Name() string {
	return "telemetry"
}

func (r *Reloader) Order() int {
	return 20
}

func (r *Reloader) ApplyConfig(ctx context.Context, snap configfx.Snapshot) error {
	section := snap.File.GetTelemetry()

	if prev, ok := reloadfx.PreviousSnapshotFromContext(ctx); ok && reflect.DeepEqual(prev.File.GetTelemetry(), section) {
		level.Debug(r.logger).Log(definitions.LogKeyMsg, "Telemetry section unchanged")

		return nil
	}

	cfg, err := BuildConfig(section, ProviderDeps{Logger: r.logger, Redis: r.redis})
	if err != nil {
		return err
	}

	level.Info(r.logger).Log(definitions.LogKeyMsg, "Telemetry section changed, collected figures are reset")

	return r.engine.Configure(cfg)
}

var _ reloadfx.Reloadable = (*Reloader)(nil)
