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
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// sampler calls onTick once per interval from a single goroutine until stopped.
type sampler struct {
	interval time.Duration
	clock    clock.Clock
	onTick   func()

	mu      sync.Mutex
	cancel  context.CancelFunc
	ticker  *clock.Ticker
	wg      sync.WaitGroup
	running bool
}

func newSampler(clk clock.Clock, interval time.Duration, onTick func()) *sampler {
	return &sampler{
		interval: interval,
		clock:    clk,
		onTick:   onTick,
	}
}

// Start launches the ticker loop. The ticker exists when Start returns, so a tick
// that happens right afterwards is not missed.
func (s *sampler) Start(parent context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	ctx, cancel := context.WithCancel(parent)
	ticker := s.clock.Ticker(s.interval)

	s.cancel = cancel
	s.ticker = ticker
	s.running = true

	s.wg.Add(1)
	go func(loopCtx context.Context, loopTicker *clock.Ticker) {
		defer s.wg.Done()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-loopTicker.C:
				// A tick queued before cancellation must not touch the ring afterwards.
				if loopCtx.Err() != nil {
					return
				}

				s.onTick()
			}
		}
	}(ctx, ticker)

	return nil
}

// Stop cancels the loop and waits for it to exit or for stopCtx to end.
func (s *sampler) Stop(stopCtx context.Context) error {
	s.mu.Lock()

	if !s.running {
		s.mu.Unlock()

		return nil
	}

	cancel := s.cancel
	ticker := s.ticker
	s.running = false
	s.cancel = nil
	s.ticker = nil

	s.mu.Unlock()

	ticker.Stop()
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-stopCtx.Done():
		return stopCtx.Err()
	}
}

// Running reports whether the loop is active.
func (s *sampler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}
