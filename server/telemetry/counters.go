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
	"net/http"
	"sync"
)

// Counters is a point-in-time copy of the request totals.
type Counters struct {
	Total   uint64 `json:"total"`
	Success uint64 `json:"success"`
	Failure uint64 `json:"failure"`
}

// CounterStore accumulates completed requests. Total always equals Success plus Failure.
type CounterStore struct {
	mu       sync.Mutex
	counters Counters
}

// IsSuccess reports whether status is a 2xx code.
func IsSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// Record counts one completed request with the given response status.
func (c *CounterStore) Record(status int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counters.Total++

	if IsSuccess(status) {
		c.counters.Success++
	} else {
		c.counters.Failure++
	}
}

// Snapshot returns the current totals.
func (c *CounterStore) Snapshot() Counters {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counters
}
