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


package signalsfx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu      sync.Mutex
	ch      chan<- os.Signal
	stopped bool
}

func (n *fakeNotifier) Notify(ch chan<- os.Signal, _ ...os.Signal) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.ch = ch
}

func (n *fakeNotifier) Stop(_ chan<- os.Signal) {
	n.mu.Lock()
	n.stopped = true
	n.mu.Unlock()
}

func (n *fakeNotifier) Send(sig os.Signal) {
	n.mu.Lock()
	ch := n.ch
	n.mu.Unlock()

	ch <- sig
}

type counter struct{ calls atomic.Int64 }

func (c *counter) Reload(context.Context) error {
	c.calls.Add(1)

	return nil
}

func (c *counter) Summary(context.Context) error {
	c.calls.Add(1)

	return nil
}

func TestControllerRoutesSignals(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := &fakeNotifier{}
	reloads := &counter{}
	summaries := &counter{}

	controller := NewController(controllerIn{
		Ctx:      ctx,
		Cancel:   cancel,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Notifier: notifier,
		Reloader: reloads,
		Summary:  summaries,
	})

	require.NoError(t, controller.Start(context.Background()))
	require.NoError(t, controller.Start(context.Background()))

	notifier.Send(syscall.SIGHUP)
	notifier.Send(syscall.SIGUSR1)
	notifier.Send(syscall.SIGUSR1)
	notifier.Send(syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected termination to cancel context")
	}

	require.NoError(t, controller.Stop(context.Background()))

	assert.Equal(t, int64(1), reloads.calls.Load())
	assert.Equal(t, int64(2), summaries.calls.Load())

	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	assert.True(t, notifier.stopped)
}

func TestControllerWithoutRunners(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controller := NewController(controllerIn{
		Ctx:      ctx,
		Cancel:   cancel,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Notifier: &fakeNotifier{},
	})

	assert.False(t, controller.handle(syscall.SIGHUP))
	assert.False(t, controller.handle(syscall.SIGUSR1))
	assert.True(t, controller.handle(syscall.SIGINT))
	assert.Error(t, ctx.Err())
}
