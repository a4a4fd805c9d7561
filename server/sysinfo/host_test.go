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

package sysinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostMemoryReportsHeap(t *testing.T) {
	usage := NewHost().Memory()

	assert.NotZero(t, usage.HeapAlloc)
	assert.NotZero(t, usage.Sys)
	assert.GreaterOrEqual(t, usage.HeapSys, usage.HeapInUse)
}

func TestHostLoadIsNeverNegative(t *testing.T) {
	avg := NewHost().Load()

	assert.GreaterOrEqual(t, avg.Load1, 0.0)
	assert.GreaterOrEqual(t, avg.Load5, 0.0)
	assert.GreaterOrEqual(t, avg.Load15, 0.0)
}
