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

package providers

import (
	"log/slog"
	"sync"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/log/level"
	"github.com/croessner/mfs/server/telemetry"
	"github.com/croessner/mfs/server/util"

	"github.com/mackerelio/go-osstat/cpu"
)

// CPUUsage holds CPU utilization in percent since the previous sample.
type CPUUsage struct {
	User   float64 `json:"user"`
	System float64 `json:"system"`
	Idle   float64 `json:"idle"`
	Iowait float64 `json:"iowait,omitempty"`
	Steal  float64 `json:"steal,omitempty"`
}

type cpuSampler struct {
	mu     sync.Mutex
	read   func() (*cpu.Stats, error)
	old    cpu.Stats
	logger *slog.Logger
}

// Sample returns the utilization between the previous call and now. The first call
// covers the time since boot.
func (s *cpuSampler) Sample() (CPUUsage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return CPUUsage{}, err
	}

	var usage CPUUsage

	if total := float64(current.Total - s.old.Total); total > 0 {
		setUsage(&s.old, current, total, &usage)
	}

	s.old = *current

	return usage, nil
}

// CPU returns a provider named "cpu". Each call reports the CPU utilization since the
// previous call. If the statistics cannot be read, the value is definitions.NotAvailable.
func CPU(logger *slog.Logger) telemetry.Provider {
	return newCPUProvider(&cpuSampler{read: cpu.Get, logger: logger})
}

func newCPUProvider(sampler *cpuSampler) telemetry.Provider {
	return func() telemetry.ProviderResult {
		usage, err := sampler.Sample()
		if err != nil {
			level.Error(sampler.logger).Log(
				definitions.LogKeyMsg, "Failed to read CPU statistics",
				definitions.LogKeyProviderName, definitions.ProviderCPU,
				definitions.LogKeyError, err,
			)

			return telemetry.ProviderResult{Name: definitions.ProviderCPU, Value: definitions.NotAvailable}
		}

		return telemetry.ProviderResult{Name: definitions.ProviderCPU, Value: usage}
	}
}

func percent(newer, older uint64, total float64) float64 {
	return util.Round2(float64(newer-older) / total * 100)
}
