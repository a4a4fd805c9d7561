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

	"github.com/stretchr/testify/assert"
)

func TestCounterStoreClassifiesStatusCodes(t *testing.T) {
	for _, status := range []int{200, 201, 250, 299} {
		var store CounterStore

		store.Record(status)
		assert.Equal(t, Counters{Total: 1, Success: 1}, store.Snapshot(), "status %d", status)
	}

	for _, status := range []int{100, 199, 300, 400, 500} {
		var store CounterStore

		store.Record(status)
		assert.Equal(t, Counters{Total: 1, Failure: 1}, store.Snapshot(), "status %d", status)
	}
}

func TestCounterStoreTotalIsAlwaysSuccessPlusFailure(t *testing.T) {
	var store CounterStore

	for i, status := range []int{200, 404, 204, 500, 302, 200, 101} {
		store.Record(status)

		got := store.Snapshot()
		assert.Equal(t, got.Success+got.Failure, got.Total, "after update %d", i)
		assert.Equal(t, uint64(i+1), got.Total)
	}
}

func TestCounterStoreConcurrentRecords(t *testing.T) {
	var (
		store CounterStore
		wg    sync.WaitGroup
	)

	for i := range 20 {
		wg.Add(1)

		go func(status int) {
			defer wg.Done()

			for range 100 {
				store.Record(status)

				snap := store.Snapshot()
				assert.Equal(t, snap.Success+snap.Failure, snap.Total)
			}
		}(200 + (i%2)*300)
	}

	wg.Wait()

	assert.Equal(t, Counters{Total: 2000, Success: 1000, Failure: 1000}, store.Snapshot())
}
