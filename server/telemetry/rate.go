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
	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/util"
)

// Window is a span of sample buckets averaged together.
type Window struct {
	Name    string
	Samples int
}

// divisor is the sum of the linear weights 1..Samples.
func (w Window) divisor() float64 {
	return float64(w.Samples*(w.Samples+1)) / 2
}

// DefaultWindows are the one, five and fifteen minute windows at the default sample interval.
var DefaultWindows = [3]Window{
	{Name: "1m", Samples: definitions.Rate1mSamples},
	{Name: "5m", Samples: definitions.Rate5mSamples},
	{Name: "15m", Samples: definitions.Rate15mSamples},
}

// Rates holds the weighted moving averages of requests per second.
type Rates struct {
	RPS1  float64 `json:"rps1"`
	RPS5  float64 `json:"rps5"`
	RPS15 float64 `json:"rps15"`
}

// RingSize returns the number of slots a ring needs to serve windows: the largest window plus the active slot.
func RingSize(windows [3]Window) int {
	largest := 0

	for _, w := range windows {
		largest = max(largest, w.Samples)
	}

	return largest + 1
}

// EstimateRates computes linearly weighted moving averages over the closed buckets of ring.
//
// The newest closed bucket weighs Samples/divisor in each window and the weight drops by
// one step per older bucket, so a window stops contributing once its samples are used up.
// All windows share a single backward walk. The ring is not modified.
func EstimateRates(ring *SampleRing, windows [3]Window) Rates {
	var sums [3]float64

	largest := RingSize(windows) - 1

	ring.Walk(largest, func(age int, rate float64) {
		for i, w := range windows {
			if age >= w.Samples {
				continue
			}

			sums[i] += rate * float64(w.Samples-age) / w.divisor()
		}
	})

	return Rates{
		RPS1:  util.Round2(sums[0]),
		RPS5:  util.Round2(sums[1]),
		RPS15: util.Round2(sums[2]),
	}
}
