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

// Package providers contains information providers that can be merged into telemetry
// snapshots via the extra_info option.
package providers

import (
	"runtime"
	"time"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/telemetry"
	"github.com/croessner/mfs/server/util"
)

// RuntimeInfo describes the Go runtime of the process.
type RuntimeInfo struct {
	GoVersion    string  `json:"goVersion"`
	Goroutines   int     `json:"goroutines"`
	GOMAXPROCS   int     `json:"gomaxprocs"`
	NumCPU       int     `json:"numCpu"`
	NumGC        uint32  `json:"numGC"`
	PauseTotalMs float64 `json:"pauseTotalMs"`
	LastGC       string  `json:"lastGC,omitempty"`
}

// Runtime returns a provider named "runtime" that reads goroutine and GC figures.
func Runtime() telemetry.Provider {
	return func() telemetry.ProviderResult {
		var memStats runtime.MemStats

		runtime.ReadMemStats(&memStats)

		info := RuntimeInfo{
			GoVersion:    runtime.Version(),
			Goroutines:   runtime.NumGoroutine(),
			GOMAXPROCS:   runtime.GOMAXPROCS(0),
			NumCPU:       runtime.NumCPU(),
			NumGC:        memStats.NumGC,
			PauseTotalMs: util.Round2(util.DurationMs(time.Duration(memStats.PauseTotalNs))),
		}

		if memStats.LastGC > 0 {
			info.LastGC = time.Unix(0, int64(memStats.LastGC)).UTC().Format(time.RFC3339)
		}

		return telemetry.ProviderResult{Name: definitions.ProviderRuntime, Value: info}
	}
}
