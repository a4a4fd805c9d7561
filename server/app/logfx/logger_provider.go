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


package logfx

import (
	"context"
	stdlog "log"
	"log/slog"

	"github.com/croessner/mfs/server/app/configfx"
	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/log"
	"github.com/croessner/mfs/server/log/level"

	"go.uber.org/fx"
)

// NewLogger builds the process logger from server.log.
func NewLogger(cfg configfx.Provider) (*slog.Logger, error) {
	server := cfg.Current().File.GetServer()

	return log.SetupLogging(log.Options{
		Level:    server.Log.Level,
		JSON:     server.Log.JSON,
		Color:    server.Log.Color,
		Instance: server.InstanceName,
	})
}

// slogStdWriter forwards lines of the standard library logger to slog.
type slogStdWriter struct{ logger *slog.Logger }

func (w *slogStdWriter) Write(p []byte) (int, error) {
	_ = level.Info(w.logger).Log(definitions.LogKeyMsg, string(p))

	return len(p), nil
}

// BridgeStdLog wires the standard library log package to the provided slog logger.
func BridgeStdLog(lc fx.Lifecycle, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if logger == nil {
				return nil
			}

			stdlog.SetFlags(0)
			stdlog.SetOutput(&slogStdWriter{logger: logger})

			return nil
		},
	})
}
