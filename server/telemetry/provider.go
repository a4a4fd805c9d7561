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
)

// ProviderResult is a named value merged into a snapshot.
type ProviderResult struct {
	Name  string
	Value any
}

// Provider supplies extra snapshot data. Providers are called synchronously, in
// registration order, once per snapshot. A later provider returning the same name
// as an earlier one (or as a built-in field) replaces that value.
type Provider func() ProviderResult

// CompletionFunc is invoked after every tracked request with the route name, the
// elapsed time in milliseconds and the request.
type CompletionFunc func(name string, elapsedMs float64, req *http.Request)

// StaticProvider returns a Provider that always reports value under name.
func StaticProvider(name string, value any) Provider {
	return func() ProviderResult {
		return ProviderResult{Name: name, Value: value}
	}
}

func collectProviders(providers []Provider) []ProviderResult {
	if len(providers) == 0 {
		return nil
	}

	results := make([]ProviderResult, 0, len(providers))

	for _, provider := range providers {
		results = append(results, provider())
	}

	return results
}
