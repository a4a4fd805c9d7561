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

package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0d:0h:0m:0s"},
		{-time.Second, "0d:0h:0m:0s"},
		{59*time.Second + 900*time.Millisecond, "0d:0h:0m:59s"},
		{26*time.Hour + 3*time.Minute + 4*time.Second, "1d:2h:3m:4s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUptime(tt.in))
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.31, Round2(0.3076923))
	assert.Equal(t, 2.0, Round2(2.0000001))
	assert.Equal(t, 0.0, Round2(0.004))
}

func TestDurationFormatting(t *testing.T) {
	assert.Equal(t, "1.500ms", FormatDurationMs(1500*time.Microsecond))
	assert.InDelta(t, 2.5, DurationMs(2500*time.Microsecond), 1e-9)
}

func TestByteSize(t *testing.T) {
	assert.Equal(t, "512B", ByteSize(512))
	assert.Equal(t, "1.5KB", ByteSize(1536))
	assert.Equal(t, "2.0MB", ByteSize(2*1024*1024))
}
