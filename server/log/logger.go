// Copyright (C) 2024 Christian Rößner
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

package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/errors"
	"github.com/croessner/mfs/server/log/color"

	fcolor "github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	mu sync.Mutex

	// levelVar is shared by every handler built by SetupLogging so SetLevel takes effect at once.
	levelVar = new(slog.LevelVar)

	// Logger is the process logger. It discards everything until SetupLogging ran.
	Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Options describes how the process logger is built.
type Options struct {
	Level    string
	JSON     bool
	Color    string
	Instance string
	Output   io.Writer
}

// ParseLevel maps a configured level name to a slog level. "none" yields a level above error.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case definitions.LogLevelNone:
		return slog.LevelError + 4, nil
	case definitions.LogLevelError:
		return slog.LevelError, nil
	case definitions.LogLevelWarn:
		return slog.LevelWarn, nil
	case "", definitions.LogLevelInfo:
		return slog.LevelInfo, nil
	case definitions.LogLevelDebug:
		return slog.LevelDebug, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", errors.ErrInvalidLogLevel, name)
	}
}

// SetupLogging builds the process logger, stores it in Logger and returns it.
func SetupLogging(opts Options) (*slog.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	useColor, err := wantColor(opts.Color, out)
	if err != nil {
		return nil, err
	}

	levelVar.Set(lvl)

	handlerOpts := &slog.HandlerOptions{Level: levelVar}

	var handler slog.Handler

	switch {
	case opts.JSON:
		handler = slog.NewJSONHandler(out, handlerOpts)
	case useColor:
		fcolor.NoColor = false
		handler = color.NewHandler(out, handlerOpts, nil)
	default:
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	logger := slog.New(handler)
	if opts.Instance != "" {
		logger = logger.With(definitions.LogKeyInstance, opts.Instance)
	}

	mu.Lock()
	Logger = logger
	mu.Unlock()

	return logger, nil
}

// SetLevel changes the level of the logger built by SetupLogging.
func SetLevel(name string) error {
	lvl, err := ParseLevel(name)
	if err != nil {
		return err
	}

	levelVar.Set(lvl)

	return nil
}

func wantColor(mode string, out io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case definitions.LogColorAlways:
		return true, nil
	case "", definitions.LogColorNever:
		return false, nil
	case definitions.LogColorAuto:
		f, ok := out.(*os.File)
		if !ok {
			return false, nil
		}

		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	default:
		return false, fmt.Errorf("%w: %q", errors.ErrInvalidColorMode, mode)
	}
}
