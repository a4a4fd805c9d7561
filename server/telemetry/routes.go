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

package telemetry

import (
	"sync"

	"github.com/croessner/mfs/server/util"
)

// RouteStat describes the calls recorded for one route name.
type RouteStat struct {
	Name         string  `json:"name"`
	Count        uint64  `json:"count"`
	AvgLatencyMs float64 `json:"avgLatencyMs"`
}

type routeEntry struct {
	count     uint64
	latencyMs float64
}

// RouteTable aggregates call counts and cumulative latency per route name.
// Entries are created on first use and kept until the table is discarded.
type RouteTable struct {
	mu      sync.Mutex
	entries map[string]*routeEntry
	order   []string
}

func NewRouteTable() *RouteTable {
	return &RouteTable{entries: make(map[string]*routeEntry)}
}

// Record adds one call of durationMs to the route name.
func (t *RouteTable) Record(name string, durationMs float64) {
	if durationMs < 0 {
		durationMs = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[name]
	if !ok {
		entry = &routeEntry{}
		t.entries[name] = entry
		t.order = append(t.order, name)
	}

	entry.count++
	entry.latencyMs += durationMs
}

// Snapshot returns every route seen so far in discovery order.
func (t *RouteTable) Snapshot() []RouteStat {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := make([]RouteStat, 0, len(t.order))

	for _, name := range t.order {
		entry := t.entries[name]
		stat := RouteStat{Name: name, Count: entry.count}

		if entry.count > 0 {
			stat.AvgLatencyMs = util.Round2(entry.latencyMs / float64(entry.count))
		}

		stats = append(stats, stat)
	}

	return stats
}
