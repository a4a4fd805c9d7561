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
	"sync/atomic"
	"time"
)

// SampleRing is a fixed-size circular buffer of request-count buckets.
//
// Slots are addressed by index; the slot at current collects events for the running
// interval and all other slots are closed. Increment is lock free: it loads the cursor
// and adds to that slot. Closed slots keep their raw counts and are converted into
// per-second rates when read, so an increment that loaded the cursor just before an
// Advance still lands in the pre-advance bucket and is not lost.
type SampleRing struct {
	mu        sync.Mutex
	counts    []atomic.Uint64
	current   atomic.Int64
	perSecond float64
}

// NewSampleRing returns a ring with size slots whose buckets span interval each.
// size must be at least 2: one active slot and one closed slot.
func NewSampleRing(size int, interval time.Duration) *SampleRing {
	if size < 2 {
		size = 2
	}

	return &SampleRing{
		counts:    make([]atomic.Uint64, size),
		perSecond: interval.Seconds(),
	}
}

// Len returns the number of slots, including the active one.
func (r *SampleRing) Len() int {
	return len(r.counts)
}

// Increment adds one event to the active bucket.
func (r *SampleRing) Increment() {
	r.counts[r.current.Load()].Add(1)
}

// Advance closes the active bucket and moves the cursor to the next slot, which is
// zeroed before it becomes active.
func (r *SampleRing) Advance() {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := (r.current.Load() + 1) % int64(len(r.counts))

	r.counts[next].Store(0)
	r.current.Store(next)
}

// Pending returns the number of events counted in the active bucket so far.
func (r *SampleRing) Pending() uint64 {
	return r.counts[r.current.Load()].Load()
}

// Walk calls fn with up to n closed rates, newest first, starting at the slot before the
// active one. The walk never reaches the active slot; slots that were never closed read as zero.
func (r *SampleRing) Walk(n int, fn func(age int, rate float64)) {
	size := int64(len(r.counts))
	if n > int(size)-1 {
		n = int(size) - 1
	}

	idx := r.current.Load()

	for age := 0; age < n; age++ {
		idx = (idx - 1 + size) % size
		fn(age, r.rate(idx))
	}
}

func (r *SampleRing) rate(idx int64) float64 {
	if r.perSecond <= 0 {
		return 0
	}

	return float64(r.counts[idx].Load()) / r.perSecond
}
