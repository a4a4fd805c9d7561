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

package util

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/log"
	"github.com/croessner/mfs/server/log/level"
)

// RedisLogger implements the go-redis internal logging interface and forwards to the process logger at debug level.
type RedisLogger struct{}

func (r *RedisLogger) Printf(_ context.Context, format string, values ...any) {
	if log.Logger == nil || !log.Logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	level.Debug(log.Logger).Log(definitions.LogKeyMsg, fmt.Sprintf(format, values...), "source", "go-redis")
}

// FormatDurationMs formats a duration as milliseconds with three fractional digits, e.g. "12.345ms".
func FormatDurationMs(d time.Duration) string {
	return fmt.Sprintf("%.3fms", DurationMs(d))
}

// DurationMs converts d into fractional milliseconds.
func DurationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// FormatUptime renders d as days, hours, minutes and seconds, e.g. "1d:2h:3m:4s".
// Negative durations are treated as zero.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	secs := int64(d / time.Second)

	return fmt.Sprintf(definitions.UptimeFormat, secs/86400, secs%86400/3600, secs%3600/60, secs%60)
}

// Round2 rounds f to two decimal places.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// ByteSize renders a byte count with a binary unit suffix, e.g. "1.5MB".
func ByteSize(bytes uint64) string {
	const unit = 1024

	if bytes < unit {
		return fmt.Sprintf("%dB", bytes)
	}

	div, exp := uint64(unit), 0

	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f%cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
