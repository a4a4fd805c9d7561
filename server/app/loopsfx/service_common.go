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


// Package loopsfx runs the periodic background services of the bundled server.
package loopsfx

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// loop runs a callback on every tick until stopped. The zero value is stopped.
type loop struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	ticker  *clock.Ticker
	wg      sync.WaitGroup
	running bool
}

// start is a no-op while the loop runs.
func (l *loop) start(parent context.Context, clk clock.Clock, interval time.Duration, onTick func(context.Context)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return
	}

	ctx, cancel := context.WithCancel(parent)
	ticker := clk.Ticker(interval)

	l.cancel = cancel
	l.ticker = ticker
	l.running = true

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				onTick(ctx)
			}
		}
	}()
}

// stop cancels the loop and waits for the running tick, honoring the stop deadline.
func (l *loop) stop(stopCtx context.Context) error {
	l.mu.Lock()

	if !l.running {
		l.mu.Unlock()

		return nil
	}

	cancel := l.cancel
	ticker := l.ticker
	l.running = false
	l.cancel = nil
	l.ticker = nil

	l.mu.Unlock()

	ticker.Stop()
	cancel()

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-stopCtx.Done():
		return stopCtx.Err()
	}
}

func (l *loop) isRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.running
}
