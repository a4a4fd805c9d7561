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
	"github.com/croessner/mfs/server/sysinfo"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Snapshot field names.
const (
	FieldStartDate    = "startDate"
	FieldUpTime       = "upTimeFormatted"
	FieldMemoryUsage  = "memoryUsage"
	FieldLoadAverages = "loadAverages"
	FieldRequests     = "requests"
	FieldAvgRPS       = "avgRps"
	FieldMethods      = "methods"
)

// Metrics is a point-in-time view of everything the engine collects.
//
// Requests, AvgRPS and Methods are nil when their collection is disabled. Extra holds
// provider results in registration order. They are merged after the built-in fields, so a
// later result with the same name wins, including over built-in keys.
type Metrics struct {
	StartDate string
	UpTime    string
	Memory    sysinfo.MemoryUsage
	Load      sysinfo.LoadAverages
	Requests  *Counters
	AvgRPS    *Rates
	Methods   []RouteStat
	Extra     []ProviderResult
}

// Fields flattens the snapshot into the object served to clients. Provider results are
// applied last; a provider named like a built-in field or an earlier provider wins.
func (m Metrics) Fields() map[string]any {
	fields := map[string]any{
		FieldStartDate:    m.StartDate,
		FieldUpTime:       m.UpTime,
		FieldMemoryUsage:  m.Memory,
		FieldLoadAverages: m.Load,
	}

	if m.Requests != nil {
		fields[FieldRequests] = *m.Requests
	}

	if m.AvgRPS != nil {
		fields[FieldAvgRPS] = *m.AvgRPS
	}

	if m.Methods != nil {
		fields[FieldMethods] = m.Methods
	}

	for _, result := range m.Extra {
		fields[result.Name] = result.Value
	}

	return fields
}

// Route returns the stat recorded for name.
func (m Metrics) Route(name string) (RouteStat, bool) {
	for _, stat := range m.Methods {
		if stat.Name == name {
			return stat, true
		}
	}

	return RouteStat{}, false
}

func (m Metrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Fields())
}
