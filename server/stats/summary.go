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

package stats

import (
	"log/slog"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/log/level"
	"github.com/croessner/mfs/server/telemetry"
	"github.com/croessner/mfs/server/util"
)

// LogSummary writes the figures of a snapshot as one info line.
func LogSummary(logger *slog.Logger, metrics telemetry.Metrics) {
	keyvals := []any{
		definitions.LogKeyMsg, "Telemetry summary",
		definitions.LogKeyUptime, metrics.UpTime,
		definitions.LogKeyRSS, util.ByteSize(metrics.Memory.RSS),
		definitions.LogKeyHeapAlloc, util.ByteSize(metrics.Memory.HeapAlloc),
		definitions.LogKeyNumGC, metrics.Memory.NumGC,
	}

	if metrics.Requests != nil {
		keyvals = append(keyvals,
			definitions.LogKeyTotal, metrics.Requests.Total,
			definitions.LogKeySuccess, metrics.Requests.Success,
			definitions.LogKeyFailure, metrics.Requests.Failure,
		)
	}

	if metrics.AvgRPS != nil {
		keyvals = append(keyvals, definitions.LogKeyRPS1, metrics.AvgRPS.RPS1)
	}

	if metrics.Methods != nil {
		keyvals = append(keyvals, definitions.LogKeyRoutes, len(metrics.Methods))
	}

	level.Info(logger).Log(keyvals...)
}
