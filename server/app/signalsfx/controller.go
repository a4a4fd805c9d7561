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


// Package signalsfx translates process signals into shutdown, reload and summary actions.
package signalsfx

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"syscall"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/log/level"

	"go.uber.org/fx"
)

// ReloadRunner re-reads the configuration.
type ReloadRunner interface {
	Reload(ctx context.Context) error
}

// SummaryRunner writes the current telemetry figures to the log.
type SummaryRunner interface {
	Summary(ctx context.Context) error
}

// Controller owns the signal subscription. SIGINT and SIGTERM cancel the root context,
// SIGHUP reloads and SIGUSR1 logs a summary.
type Controller struct {
	ctx    context.Context
	cancel context.CancelFunc

	logger   *slog.Logger
	notifier Notifier

	reloader ReloadRunner
	summary  SummaryRunner

	mu    sync.Mutex
	sigCh chan os.Signal
	wg    sync.WaitGroup
}

type controllerIn struct {
	fx.In

	Ctx    context.Context
	Cancel context.CancelFunc

	Logger   *slog.Logger
	Notifier Notifier

	Reloader ReloadRunner  `optional:"true"`
	Summary  SummaryRunner `optional:"true"`
}

func NewController(in controllerIn) *Controller {
	return &Controller{
		ctx:      in.Ctx,
		cancel:   in.Cancel,
		logger:   in.Logger,
		notifier: in.Notifier,
		reloader: in.Reloader,
		summary:  in.Summary,
	}
}

// Start subscribes to the signals. Start is idempotent.
func (c *Controller) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sigCh != nil {
		return nil
	}

	sigCh := make(chan os.Signal, 8)
	c.sigCh = sigCh
	c.notifier.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGUSR1)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.loop(sigCh)
	}()

	return nil
}

// Stop unsubscribes and waits for the routing loop to exit.
func (c *Controller) Stop(_ context.Context) error {
	c.mu.Lock()
	sigCh := c.sigCh
	c.sigCh = nil
	c.mu.Unlock()

	if sigCh != nil {
		c.notifier.Stop(sigCh)
		close(sigCh)
	}

	c.wg.Wait()

	return nil
}

func (c *Controller) loop(sigCh <-chan os.Signal) {
	for {
		select {
		case <-c.ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if c.handle(sig) {
				return
			}
		}
	}
}

// handle reports whether the loop should end.
func (c *Controller) handle(sig os.Signal) bool {
	switch sig {
	case syscall.SIGINT, syscall.SIGTERM:
		level.Info(c.logger).Log(definitions.LogKeyMsg, "Received termination signal", definitions.LogKeySignal, sig.String())
		c.cancel()

		return true
	case syscall.SIGHUP:
		level.Info(c.logger).Log(definitions.LogKeyMsg, "Received reload signal", definitions.LogKeySignal, sig.String())

		if c.reloader != nil {
			_ = c.reloader.Reload(c.ctx)
		}
	case syscall.SIGUSR1:
		level.Debug(c.logger).Log(definitions.LogKeyMsg, "Received summary signal", definitions.LogKeySignal, sig.String())

		if c.summary != nil {
			_ = c.summary.Summary(c.ctx)
		}
	default:
		level.Debug(c.logger).Log(definitions.LogKeyMsg, "Received unhandled signal", definitions.LogKeySignal, sig.String())
	}

	return false
}
