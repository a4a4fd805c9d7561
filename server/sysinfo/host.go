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

// Package sysinfo reads process memory and host load figures for telemetry snapshots.
package sysinfo

import (
	"os"
	"runtime"
	"sync"

	"github.com/croessner/mfs/server/util"

	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/process"
)

// MemoryUsage describes the memory held by the running process in bytes.
type MemoryUsage struct {
	RSS        uint64 `json:"rss"`
	HeapAlloc  uint64 `json:"heapAlloc"`
	HeapInUse  uint64 `json:"heapInUse"`
	HeapSys    uint64 `json:"heapSys"`
	StackInUse uint64 `json:"stackInUse"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"numGC"`
}

// LoadAverages are the host's 1, 5 and 15 minute load averages rounded to two decimals.
type LoadAverages struct {
	Load1  float64 `json:"load1"`
	Load5  float64 `json:"load5"`
	Load15 float64 `json:"load15"`
}

// Reader provides the host figures included in every snapshot.
type Reader interface {
	Memory() MemoryUsage
	Load() LoadAverages
}

// Host reads figures of the current process and machine. Values that cannot be
// determined on the platform are reported as zero.
type Host struct {
	once sync.Once
	proc *process.Process
}

func NewHost() *Host {
	return &Host{}
}

func (h *Host) Memory() MemoryUsage {
	var memStats runtime.MemStats

	runtime.ReadMemStats(&memStats)

	usage := MemoryUsage{
		HeapAlloc:  memStats.HeapAlloc,
		HeapInUse:  memStats.HeapInuse,
		HeapSys:    memStats.HeapSys,
		StackInUse: memStats.StackInuse,
		Sys:        memStats.Sys,
		NumGC:      memStats.NumGC,
	}

	if proc := h.process(); proc != nil {
		if info, err := proc.MemoryInfo(); err == nil && info != nil {
			usage.RSS = info.RSS
		}
	}

	return usage
}

func (h *Host) Load() LoadAverages {
	avg, err := load.Avg()
	if err != nil || avg == nil {
		return LoadAverages{}
	}

	return LoadAverages{
		Load1:  util.Round2(avg.Load1),
		Load5:  util.Round2(avg.Load5),
		Load15: util.Round2(avg.Load15),
	}
}

func (h *Host) process() *process.Process {
	h.once.Do(func() {
		proc, err := process.NewProcess(int32(os.Getpid()))
		if err == nil {
			h.proc = proc
		}
	})

	return h.proc
}

var _ Reader = (*Host)(nil)
