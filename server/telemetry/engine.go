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

// Package telemetry implements the request telemetry engine: request totals, weighted
// moving averages of the request rate and per-route latency, exposed as snapshots.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/errors"
	"github.com/croessner/mfs/server/log/level"
	"github.com/croessner/mfs/server/sysinfo"
	"github.com/croessner/mfs/server/util"

	"github.com/benbjohnson/clock"
)

// state is everything one Configure call owns. It is replaced as a whole, never mutated
// field by field.
type state struct {
	cfg      Config
	counters *CounterStore
	routes   *RouteTable
	ring     *SampleRing
	sampler  *sampler
}

// Engine owns all telemetry state. A new Engine is unconfigured and collects nothing
// until Configure is called. All methods are safe for concurrent use.
type Engine struct {
	clock    clock.Clock
	logger   *slog.Logger
	host     sysinfo.Reader
	interval time.Duration
	windows  [3]Window
	started  time.Time

	mu    sync.Mutex
	state atomic.Pointer[state]
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock sets the clock used for request timing, uptime and the sampler.
func WithClock(clk clock.Clock) Option {
	return func(e *Engine) {
		if clk != nil {
			e.clock = clk
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSampleInterval changes the bucket duration of the sample ring.
func WithSampleInterval(interval time.Duration) Option {
	return func(e *Engine) {
		e.interval = interval
	}
}

// WithHostReader replaces the source of memory and load figures.
func WithHostReader(host sysinfo.Reader) Option {
	return func(e *Engine) {
		if host != nil {
			e.host = host
		}
	}
}

// New returns an unconfigured Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:    clock.New(),
		logger:   slog.Default(),
		interval: definitions.SampleInterval,
		windows:  DefaultWindows,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.host == nil {
		e.host = sysinfo.NewHost()
	}

	e.started = e.clock.Now()
	e.state.Store(&state{})

	return e
}

// Configure replaces the whole engine state. Counters, routes and the sample ring start
// from zero and providers are registered anew. The running sampler is stopped and
// joined before a new one starts. On error the previous state stays in place.
func (e *Engine) Configure(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	if cfg.RPS && e.interval <= 0 {
		return fmt.Errorf("%w: got %s", errors.ErrSamplerInterval, e.interval)
	}

	cfg = cfg.clone()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.stopSampler(context.Background()); err != nil {
		return err
	}

	next := &state{cfg: cfg}

	if cfg.Totals {
		next.counters = &CounterStore{}
	}

	if cfg.Methods {
		next.routes = NewRouteTable()
	}

	if cfg.RPS {
		next.ring = NewSampleRing(RingSize(e.windows), e.interval)
		next.sampler = newSampler(e.clock, e.interval, next.ring.Advance)

		if err := next.sampler.Start(context.Background()); err != nil {
			return err
		}

		level.Debug(e.logger).Log(definitions.LogKeyMsg, "Request rate sampler started", definitions.LogKeyInterval, e.interval.String())
	}

	e.state.Store(next)

	level.Info(e.logger).Log(
		definitions.LogKeyMsg, "Telemetry configured",
		definitions.LogKeyTotals, cfg.Totals,
		definitions.LogKeyRPS, cfg.RPS,
		definitions.LogKeyMethods, cfg.Methods,
		definitions.LogKeyProviders, len(cfg.ExtraInfo),
	)

	return nil
}

// ConfigureOptions parses loosely typed options with ParseOptions and applies them.
func (e *Engine) ConfigureOptions(opts map[string]any) error {
	cfg, err := ParseOptions(opts)
	if err != nil {
		level.Error(e.logger).Log(definitions.LogKeyMsg, "Invalid telemetry configuration", definitions.LogKeyError, err)

		return err
	}

	return e.Configure(cfg)
}

// Stop halts the background sampler. Counters keep their values; rates stop moving.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stopSampler(ctx)
}

// stopSampler must be called with e.mu held.
func (e *Engine) stopSampler(ctx context.Context) error {
	current := e.state.Load()
	if current == nil || current.sampler == nil || !current.sampler.Running() {
		return nil
	}

	if err := current.sampler.Stop(ctx); err != nil {
		return err
	}

	level.Debug(e.logger).Log(definitions.LogKeyMsg, "Request rate sampler stopped")

	return nil
}

// SamplerRunning reports whether the background sampler is active.
func (e *Engine) SamplerRunning() bool {
	current := e.state.Load()

	return current.sampler != nil && current.sampler.Running()
}

// SamplerWanted reports whether the active configuration collects request rates.
func (e *Engine) SamplerWanted() bool {
	return e.state.Load().cfg.RPS
}

// Config returns the active configuration.
func (e *Engine) Config() Config {
	return e.state.Load().cfg.clone()
}

// BeginRequest starts tracking a request. It returns nil when neither route statistics
// nor the completion callback are enabled. The route name defaults to rawPath.
func (e *Engine) BeginRequest(rawPath string) *RequestContext {
	if !e.state.Load().cfg.tracksRequests() {
		return nil
	}

	return &RequestContext{start: e.clock.Now(), routeName: rawPath}
}

// SetRouteName renames the route of rc, see the package level SetRouteName.
func (e *Engine) SetRouteName(rc *RequestContext, name string) {
	SetRouteName(rc, name)
}

// EndRequest records a completed request. Totals and the request rate are updated for
// every request; route latency and the completion callback need rc.
func (e *Engine) EndRequest(rc *RequestContext, status int, req *http.Request) {
	current := e.state.Load()

	if current.counters != nil {
		current.counters.Record(status)
	}

	if current.ring != nil {
		current.ring.Increment()
	}

	if rc == nil {
		return
	}

	elapsedMs := util.DurationMs(e.clock.Since(rc.start))

	if current.routes != nil {
		current.routes.Record(rc.routeName, elapsedMs)
	}

	if current.cfg.MethodInfo != nil {
		current.cfg.MethodInfo(rc.routeName, elapsedMs, req)
	}
}

// Counters returns the request totals and whether they are collected.
func (e *Engine) Counters() (Counters, bool) {
	current := e.state.Load()
	if current.counters == nil {
		return Counters{}, false
	}

	return current.counters.Snapshot(), true
}

// Rates returns the moving averages of requests per second and whether they are collected.
func (e *Engine) Rates() (Rates, bool) {
	current := e.state.Load()
	if current.ring == nil {
		return Rates{}, false
	}

	return EstimateRates(current.ring, e.windows), true
}

// Routes returns the per-route statistics and whether they are collected.
func (e *Engine) Routes() ([]RouteStat, bool) {
	current := e.state.Load()
	if current.routes == nil {
		return nil, false
	}

	return current.routes.Snapshot(), true
}

// Uptime returns the time since the engine was created.
func (e *Engine) Uptime() time.Duration {
	return e.clock.Since(e.started)
}

// Snapshot collects all enabled metrics and the provider results.
func (e *Engine) Snapshot() Metrics {
	current := e.state.Load()

	metrics := Metrics{
		StartDate: e.started.UTC().Format(http.TimeFormat),
		UpTime:    util.FormatUptime(e.Uptime()),
		Memory:    e.host.Memory(),
		Load:      e.host.Load(),
	}

	if current.counters != nil {
		counters := current.counters.Snapshot()
		metrics.Requests = &counters
	}

	if current.ring != nil {
		rates := EstimateRates(current.ring, e.windows)
		metrics.AvgRPS = &rates
	}

	if current.routes != nil {
		metrics.Methods = current.routes.Snapshot()
	}

	metrics.Extra = collectProviders(current.cfg.ExtraInfo)

	return metrics
}
