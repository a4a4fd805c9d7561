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


package loopsfx

import (
	"context"
	"log/slog"
	"time"

	"github.com/croessner/mfs/server/app/configfx"
	"github.com/croessner/mfs/server/app/reloadfx"
	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/log/level"
	"github.com/croessner/mfs/server/stats"
	"github.com/croessner/mfs/server/telemetry"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"
)

// Module runs the summary service for the lifetime of the application.
var Module = fx.Module("loopsfx",
	fx.Provide(
		NewDefaultSummaryService,
		fx.Annotate(
			func(s *SummaryService) *SummaryService { return s },
			fx.As(new(reloadfx.Reloadable)),
			fx.ResultTags(`group:"reloadables"`),
		),
	),
	fx.Invoke(func(lc fx.Lifecycle, ctx context.Context, s *SummaryService) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error { return s.Start(ctx) },
			OnStop:  s.Stop,
		})
	}),
)

// Snapshotter is implemented by *telemetry.Engine.
type Snapshotter interface {
	Snapshot() telemetry.Metrics
}

// SummaryService writes a telemetry summary to the log every interval. It also writes one
// on demand. A zero interval disables the periodic summary.
type SummaryService struct {
	loop

	clock    clock.Clock
	source   Snapshotter
	logger   *slog.Logger
	interval time.Duration
	parent   context.Context
}

// NewDefaultSummaryService uses server.summary_interval and the wall clock.
func NewDefaultSummaryService(cfg configfx.Provider, engine *telemetry.Engine, logger *slog.Logger) *SummaryService {
	return NewSummaryService(clock.New(), cfg.Current().File.GetServer().SummaryEvery, engine, logger)
}

func NewSummaryService(clk clock.Clock, interval time.Duration, source Snapshotter, logger *slog.Logger) *SummaryService {
	if logger == nil {
		logger = slog.Default()
	}

	return &SummaryService{clock: clk, source: source, logger: logger, interval: interval}
}

// Start begins the periodic summary. Start is idempotent.
func (s *SummaryService) Start(parent context.Context) error {
	s.mu.Lock()
	s.parent = parent
	interval := s.interval
	s.mu.Unlock()

	if interval <= 0 {
		return nil
	}

	s.start(parent, s.clock, interval, func(context.Context) { s.logSummary() })

	level.Debug(s.logger).Log(definitions.LogKeyMsg, "Summary service started", definitions.LogKeyInterval, interval.String())

	return nil
}

// Stop terminates the periodic summary within the deadline of stopCtx.
func (s *SummaryService) Stop(stopCtx context.Context) error {
	return s.stop(stopCtx)
}

// Summary writes one summary immediately.
func (s *SummaryService) Summary(context.Context) error {
	s.logSummary()

	return nil
}

func (s *SummaryService) logSummary() {
	stats.LogSummary(s.logger, s.source.Snapshot())
}

func (s *SummaryService) Name() string {
	return "summary_service"
}

func (s *SummaryService) Order() int {
	return 30
}

// ApplyConfig restarts the loop when server.summary_interval changed.
func (s *SummaryService) ApplyConfig(ctx context.Context, snap configfx.Snapshot) error {
	interval := snap.File.GetServer().SummaryEvery

	s.mu.Lock()
	unchanged := interval == s.interval
	parent := s.parent
	s.interval = interval
	s.mu.Unlock()

	if unchanged || parent == nil {
		return nil
	}

	if err := s.Stop(ctx); err != nil {
		return err
	}

	return s.Start(parent)
}

var _ reloadfx.Reloadable = (*SummaryService)(nil)
