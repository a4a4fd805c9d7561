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


// Package reloadfx applies a re-read configuration file to the running components.
package reloadfx

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/croessner/mfs/server/app/configfx"
	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/log/level"

	"go.uber.org/fx"
	"go.uber.org/multierr"
)

// Manager coordinates a configuration reload.
//
// Reloads never overlap. The snapshot is swapped first, then every Reloadable is applied
// in Order. A failing component does not stop the others.
type Manager struct {
	mu          sync.Mutex
	reloader    configfx.Reloader
	logger      *slog.Logger
	reloadables []Reloadable
}

type managerIn struct {
	fx.In

	Reloader configfx.Reloader
	Logger   *slog.Logger

	Reloadables []Reloadable `group:"reloadables"`
}

// NewManager constructs a reload Manager.
func NewManager(in managerIn) *Manager {
	rls := make([]Reloadable, 0, len(in.Reloadables))

	for _, r := range in.Reloadables {
		if r != nil {
			rls = append(rls, r)
		}
	}

	sort.SliceStable(rls, func(i, j int) bool {
		if rls[i].Order() == rls[j].Order() {
			return rls[i].Name() < rls[j].Name()
		}

		return rls[i].Order() < rls[j].Order()
	})

	logger := in.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		reloader:    in.Reloader,
		logger:      logger,
		reloadables: rls,
	}
}

// Reload re-reads the configuration and applies it. The returned error combines all
// component failures.
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.reloader.Current()

	snap, err := m.reloader.Reload()
	if err != nil {
		level.Error(m.logger).Log(definitions.LogKeyMsg, "Configuration reload failed", definitions.LogKeyError, err)

		return err
	}

	ctx = WithPreviousSnapshot(ctx, prev)

	var errs error

	for _, r := range m.reloadables {
		if err = r.ApplyConfig(ctx, snap); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reloadable %s apply config failed: %w", r.Name(), err))

			level.Error(m.logger).Log(
				definitions.LogKeyMsg, "Apply config failed",
				definitions.LogKeyComponent, r.Name(),
				definitions.LogKeyError, err,
			)
		}
	}

	if errs == nil {
		level.Info(m.logger).Log(
			definitions.LogKeyMsg, "Configuration reloaded",
			definitions.LogKeyConfigFile, snap.Source,
			definitions.LogKeyVersion, snap.Version,
		)
	}

	return errs
}

// Module provides the Manager. Components join the reload by providing a Reloadable
// into the "reloadables" group.
var Module = fx.Module("reloadfx",
	fx.Provide(NewManager),
)
