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


// Package logfx builds the process logger from the configuration and keeps its level in
// sync with reloads.
package logfx

import (
	"context"

	"github.com/croessner/mfs/server/app/configfx"
	"github.com/croessner/mfs/server/app/reloadfx"
	"github.com/croessner/mfs/server/log"

	"go.uber.org/fx"
)

// Module defines the logfx module for UberFX.
var Module = fx.Module("logfx",
	fx.Provide(
		NewLogger,
		fx.Annotate(
			NewLevelReloader,
			fx.As(new(reloadfx.Reloadable)),
			fx.ResultTags(`group:"reloadables"`),
		),
	),
	fx.Invoke(BridgeStdLog),
)

// LevelReloader applies server.log.level on reload. Output format changes need a restart.
type LevelReloader struct{}

// NewLevelReloader creates a new LevelReloader instance.
func NewLevelReloader() *LevelReloader {
	return &LevelReloader{}
}

func (l *LevelReloader) Name() string {
	return "log_level"
}

func (l *LevelReloader) Order() int {
	return 10
}

func (l *LevelReloader) ApplyConfig(_ context.Context, snap configfx.Snapshot) error {
	if snap.File == nil {
		return nil
	}

	return log.SetLevel(snap.File.GetServer().Log.Level)
}

var _ reloadfx.Reloadable = (*LevelReloader)(nil)
