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
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsAcceptsKnownKeys(t *testing.T) {
	var called bool

	cfg, err := ParseOptions(map[string]any{
		definitions.OptionTotals:     true,
		definitions.OptionRPS:        false,
		definitions.OptionMethods:    true,
		definitions.OptionMethodInfo: func(string, float64, *http.Request) { called = true },
		definitions.OptionExtraInfo:  []any{StaticProvider("build", "abc"), func() ProviderResult { return ProviderResult{Name: "x"} }},
		"unknown":                    42,
	})
	require.NoError(t, err)

	assert.True(t, cfg.Totals)
	assert.False(t, cfg.RPS)
	assert.True(t, cfg.Methods)
	require.NotNil(t, cfg.MethodInfo)
	assert.Len(t, cfg.ExtraInfo, 2)

	cfg.MethodInfo("r", 1, nil)
	assert.True(t, called)
}

func TestParseOptionsEmptyDisablesEverything(t *testing.T) {
	cfg, err := ParseOptions(nil)
	require.NoError(t, err)

	assert.False(t, cfg.Totals || cfg.RPS || cfg.Methods)
	assert.Nil(t, cfg.MethodInfo)
	assert.Empty(t, cfg.ExtraInfo)
}

func TestParseOptionsProviderListForms(t *testing.T) {
	for name, value := range map[string]any{
		"providers": []Provider{StaticProvider("a", 1)},
		"funcs":     []func() ProviderResult{StaticProvider("a", 1)},
		"any":       []any{StaticProvider("a", 1)},
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := ParseOptions(map[string]any{definitions.OptionExtraInfo: value})
			require.NoError(t, err)
			require.Len(t, cfg.ExtraInfo, 1)
			assert.Equal(t, ProviderResult{Name: "a", Value: 1}, cfg.ExtraInfo[0]())
		})
	}
}

func TestParseOptionsRejectsWrongTypes(t *testing.T) {
	tests := []struct {
		name   string
		option string
		value  any
	}{
		{name: "totals as string", option: definitions.OptionTotals, value: "yes"},
		{name: "rps as int", option: definitions.OptionRPS, value: 1},
		{name: "methods as nil", option: definitions.OptionMethods, value: nil},
		{name: "method info as string", option: definitions.OptionMethodInfo, value: "log"},
		{name: "method info wrong signature", option: definitions.OptionMethodInfo, value: func() {}},
		{name: "extra info not a list", option: definitions.OptionExtraInfo, value: StaticProvider("a", 1)},
		{name: "extra info with a string", option: definitions.OptionExtraInfo, value: []any{StaticProvider("a", 1), "b"}},
		{name: "extra info with nil", option: definitions.OptionExtraInfo, value: []Provider{nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions(map[string]any{tt.option: tt.value})
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrConfiguration)

			var cfgErr *errors.ConfigurationError
			require.True(t, stderrors.As(err, &cfgErr))
			assert.Equal(t, tt.option, cfgErr.Option)
		})
	}
}
