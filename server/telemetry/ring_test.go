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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedRates(r *SampleRing) []float64 {
	var rates []float64

	r.Walk(r.Len(), func(_ int, rate float64) {
		rates = append(rates, rate)
	})

	return rates
}

func TestSampleRingAdvanceConvertsCountToRate(t *testing.T) {
	ring := NewSampleRing(4, 5*time.Second)

	for range 10 {
		ring.Increment()
	}

	assert.Equal(t, uint64(10), ring.Pending())
	assert.Equal(t, []float64{0, 0, 0}, closedRates(ring))

	ring.Advance()

	assert.Equal(t, uint64(0), ring.Pending())
	assert.Equal(t, []float64{2, 0, 0}, closedRates(ring))
}

func TestSampleRingWrapsAndZeroesReusedSlots(t *testing.T) {
	ring := NewSampleRing(3, time.Second)

	ring.Increment()
	ring.Advance() // slot 0 closed at 1/s

	ring.Increment()
	ring.Increment()
	ring.Advance() // slot 1 closed at 2/s

	assert.Equal(t, []float64{2, 1}, closedRates(ring))

	ring.Advance() // cursor wraps to slot 0, which is zeroed

	assert.Equal(t, []float64{0, 2}, closedRates(ring))
	assert.Equal(t, uint64(0), ring.Pending())
}

func TestSampleRingWalkIsBoundedByClosedSlots(t *testing.T) {
	ring := NewSampleRing(5, time.Second)

	visited := 0
	ring.Walk(100, func(int, float64) { visited++ })

	assert.Equal(t, 4, visited)
}

func TestSampleRingMinimumSize(t *testing.T) {
	assert.Equal(t, 2, NewSampleRing(0, time.Second).Len())
}

func TestSampleRingConcurrentIncrementsAreNotLost(t *testing.T) {
	const (
		workers   = 50
		perWorker = 100
		advances  = 10
		interval  = 5 * time.Second
	)

	ring := NewSampleRing(64, interval)

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range perWorker {
				ring.Increment()
			}
		}()
	}

	wg.Add(1)

	go func() {
		defer wg.Done()

		for range advances {
			ring.Advance()
		}
	}()

	wg.Wait()

	total := float64(ring.Pending())
	for _, rate := range closedRates(ring) {
		total += rate * interval.Seconds()
	}

	require.InDelta(t, float64(workers*perWorker), total, 1e-6)
}

func TestSampleRingIncrementDoesNotWaitForAdvance(t *testing.T) {
	ring := NewSampleRing(4, time.Second)

	ring.mu.Lock()
	defer ring.mu.Unlock()

	done := make(chan struct{})

	go func() {
		ring.Increment()
		close(done)
	}()

	require.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	assert.Equal(t, uint64(1), ring.Pending())
}

func TestSampleRingLateIncrementStaysInClosedBucket(t *testing.T) {
	ring := NewSampleRing(4, time.Second)

	ring.Increment()

	// An Increment that read the cursor right before the advance.
	loaded := ring.current.Load()

	ring.Advance()
	ring.counts[loaded].Add(1)

	assert.Equal(t, uint64(0), ring.Pending())
	assert.Equal(t, []float64{2, 0, 0}, closedRates(ring))
}
