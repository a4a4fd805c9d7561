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
	"fmt"
	"log/slog"
	"time"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/log/level"

	"go.uber.org/fx/fxevent"
)

// slowHook is the lifecycle hook runtime above which a hook is logged at info level.
const slowHook = time.Second

// FxEventLogger writes fx lifecycle events to slog. Errors are always logged; the
// dependency graph only at debug level.
type FxEventLogger struct {
	logger *slog.Logger
}

func NewFxEventLogger(logger *slog.Logger) fxevent.Logger {
	return &FxEventLogger{logger: logger}
}

func (l *FxEventLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.Started:
		l.result("Application started", e.Err)
	case *fxevent.Stopped:
		l.result("Application stopped", e.Err)
	case *fxevent.RollingBack:
		level.Warn(l.logger).Log(definitions.LogKeyMsg, "Start failed, rolling back", definitions.LogKeyError, e.StartErr)
	case *fxevent.RolledBack:
		l.result("Rolled back", e.Err)
	case *fxevent.OnStartExecuted:
		l.hook("OnStart", e.FunctionName, e.Runtime, e.Err)
	case *fxevent.OnStopExecuted:
		l.hook("OnStop", e.FunctionName, e.Runtime, e.Err)
	case *fxevent.Provided:
		if e.Err != nil {
			level.Error(l.logger).Log(definitions.LogKeyMsg, "Provide failed", "constructor", e.ConstructorName, definitions.LogKeyError, e.Err)

			return
		}

		level.Debug(l.logger).Log(definitions.LogKeyMsg, "Provided", "constructor", e.ConstructorName, "types", e.OutputTypeNames, "module", e.ModuleName)
	case *fxevent.Invoked:
		if e.Err != nil {
			level.Error(l.logger).Log(definitions.LogKeyMsg, "Invoke failed", "function", e.FunctionName, definitions.LogKeyError, e.Err)

			return
		}

		level.Debug(l.logger).Log(definitions.LogKeyMsg, "Invoked", "function", e.FunctionName, "module", e.ModuleName)
	default:
		level.Debug(l.logger).Log(definitions.LogKeyMsg, "fx event", "type", fmt.Sprintf("%T", event))
	}
}

func (l *FxEventLogger) result(msg string, err error) {
	if err != nil {
		level.Error(l.logger).Log(definitions.LogKeyMsg, msg, definitions.LogKeyError, err)

		return
	}

	level.Debug(l.logger).Log(definitions.LogKeyMsg, msg)
}

func (l *FxEventLogger) hook(kind string, callee string, runtime time.Duration, err error) {
	keyvals := []any{definitions.LogKeyMsg, kind + " hook executed", "callee", callee, definitions.LogKeyElapsed, runtime.Milliseconds()}

	switch {
	case err != nil:
		level.Error(l.logger).Log(append(keyvals, definitions.LogKeyError, err)...)
	case runtime > slowHook:
		level.Info(l.logger).Log(keyvals...)
	default:
		level.Debug(l.logger).Log(keyvals...)
	}
}
