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

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/errors"
)

// Config selects what the engine collects. The zero value disables everything.
type Config struct {
	// Totals enables the total/success/failure counters.
	Totals bool

	// RPS enables the sample ring and the background sampler.
	RPS bool

	// Methods enables per-route call counts and latency.
	Methods bool

	// MethodInfo, if set, receives timing data for every request.
	MethodInfo CompletionFunc

	// ExtraInfo providers are merged into every snapshot.
	ExtraInfo []Provider
}

// tracksRequests reports whether requests need a RequestContext.
func (c Config) tracksRequests() bool {
	return c.Methods || c.MethodInfo != nil
}

func (c Config) validate() error {
	for i, provider := range c.ExtraInfo {
		if provider == nil {
			return errors.NewConfigurationError(definitions.OptionExtraInfo, "entry %d is not a function", i)
		}
	}

	return nil
}

func (c Config) clone() Config {
	cp := c
	cp.ExtraInfo = append([]Provider(nil), c.ExtraInfo...)

	return cp
}

// ParseOptions builds a Config from loosely typed options, e.g. a decoded configuration
// file section. Known keys are definitions.OptionTotals, OptionRPS and OptionMethods
// (booleans), OptionMethodInfo (a CompletionFunc) and OptionExtraInfo (a list of
// providers). A value of the wrong type yields a *errors.ConfigurationError naming the
// key. Absent keys stay disabled and unknown keys are ignored.
func ParseOptions(opts map[string]any) (Config, error) {
	var cfg Config

	for key, value := range opts {
		switch key {
		case definitions.OptionTotals:
			flag, err := parseBool(key, value)
			if err != nil {
				return Config{}, err
			}

			cfg.Totals = flag
		case definitions.OptionRPS:
			flag, err := parseBool(key, value)
			if err != nil {
				return Config{}, err
			}

			cfg.RPS = flag
		case definitions.OptionMethods:
			flag, err := parseBool(key, value)
			if err != nil {
				return Config{}, err
			}

			cfg.Methods = flag
		case definitions.OptionMethodInfo:
			fn, err := parseCompletion(key, value)
			if err != nil {
				return Config{}, err
			}

			cfg.MethodInfo = fn
		case definitions.OptionExtraInfo:
			providers, err := parseProviders(key, value)
			if err != nil {
				return Config{}, err
			}

			cfg.ExtraInfo = providers
		}
	}

	return cfg, nil
}

func parseBool(key string, value any) (bool, error) {
	flag, ok := value.(bool)
	if !ok {
		return false, errors.NewConfigurationError(key, "must be a boolean, got %T", value)
	}

	return flag, nil
}

func parseCompletion(key string, value any) (CompletionFunc, error) {
	switch fn := value.(type) {
	case CompletionFunc:
		if fn != nil {
			return fn, nil
		}
	case func(string, float64, *http.Request):
		if fn != nil {
			return fn, nil
		}
	}

	return nil, errors.NewConfigurationError(key, "is not a function, got %T", value)
}

func parseProvider(key string, idx int, value any) (Provider, error) {
	switch fn := value.(type) {
	case Provider:
		if fn != nil {
			return fn, nil
		}
	case func() ProviderResult:
		if fn != nil {
			return fn, nil
		}
	}

	return nil, errors.NewConfigurationError(key, "entry %d is not a function, got %T", idx, value)
}

func parseProviders(key string, value any) ([]Provider, error) {
	switch list := value.(type) {
	case []Provider:
		return validateProviders(key, list)
	case []func() ProviderResult:
		providers := make([]Provider, 0, len(list))

		for i, fn := range list {
			provider, err := parseProvider(key, i, fn)
			if err != nil {
				return nil, err
			}

			providers = append(providers, provider)
		}

		return providers, nil
	case []any:
		providers := make([]Provider, 0, len(list))

		for i, item := range list {
			provider, err := parseProvider(key, i, item)
			if err != nil {
				return nil, err
			}

			providers = append(providers, provider)
		}

		return providers, nil
	default:
		return nil, errors.NewConfigurationError(key, "is not a list, got %T", value)
	}
}

func validateProviders(key string, list []Provider) ([]Provider, error) {
	for i, fn := range list {
		if fn == nil {
			return nil, errors.NewConfigurationError(key, "entry %d is not a function", i)
		}
	}

	return list, nil
}
