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


// Package telemetryfx provides the telemetry engine of the bundled server and configures
// it from the telemetry section of the configuration file.
package telemetryfx

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/errors"
	"github.com/croessner/mfs/server/log/level"
	"github.com/croessner/mfs/server/providers"
	"github.com/croessner/mfs/server/telemetry"

	"github.com/redis/go-redis/v9"
)

// ProviderDeps are the inputs the named providers may need.
type ProviderDeps struct {
	Logger *slog.Logger
	Redis  *redis.Client
}

// BuildConfig turns the raw telemetry section into an engine configuration.
//
// A missing section enables totals, rps and methods. method_log (bool) installs a
// MethodInfo callback logging every request at debug level. providers is a list of
// built-in provider names. The remaining keys go through telemetry.ParseOptions.
func BuildConfig(section map[string]any, deps ProviderDeps) (telemetry.Config, error) {
	if section == nil {
		return telemetry.Config{Totals: true, RPS: true, Methods: true}, nil
	}

	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	opts := make(map[string]any, len(section))

	for key, value := range section {
		switch key {
		case definitions.TelemetryKeyMethodLog:
			enabled, ok := value.(bool)
			if !ok {
				return telemetry.Config{}, errors.NewConfigurationError(key, "must be a boolean, got %T", value)
			}

			if enabled {
				opts[definitions.OptionMethodInfo] = MethodLogger(deps.Logger)
			}
		case definitions.TelemetryKeyProviders:
			list, err := namedProviders(key, value, deps)
			if err != nil {
				return telemetry.Config{}, err
			}

			opts[definitions.OptionExtraInfo] = list
		case definitions.OptionMethodInfo, definitions.OptionExtraInfo:
			return telemetry.Config{}, errors.NewConfigurationError(key, "cannot be set in a configuration file")
		default:
			opts[key] = value
		}
	}

	return telemetry.ParseOptions(opts)
}

func namedProviders(key string, value any, deps ProviderDeps) ([]telemetry.Provider, error) {
	var names []string

	switch list := value.(type) {
	case []string:
		names = list
	case []any:
		for i, item := range list {
			name, ok := item.(string)
			if !ok {
				return nil, errors.NewConfigurationError(key, "entry %d is not a name, got %T", i, item)
			}

			names = append(names, name)
		}
	default:
		return nil, errors.NewConfigurationError(key, "is not a list, got %T", value)
	}

	result := make([]telemetry.Provider, 0, len(names))

	for _, name := range names {
		switch name {
		case definitions.ProviderRuntime:
			result = append(result, providers.Runtime())
		case definitions.ProviderCPU:
			result = append(result, providers.CPU(deps.Logger))
		case definitions.ProviderRedisPool:
			if deps.Redis == nil {
				return nil, fmt.Errorf("%w: %q", errors.ErrRedisNotEnabled, name)
			}

			result = append(result, providers.RedisPool(definitions.ProviderRedisPool, deps.Redis))
		default:
			return nil, fmt.Errorf("%w: %q", errors.ErrUnknownProvider, name)
		}
	}

	return result, nil
}

// MethodLogger returns a MethodInfo callback that logs every finished request at debug level.
func MethodLogger(logger *slog.Logger) telemetry.CompletionFunc {
	return func(name string, elapsedMs float64, req *http.Request) {
		keyvals := []any{
			definitions.LogKeyMsg, "Request timed",
			definitions.LogKeyRoute, name,
			definitions.LogKeyElapsed, elapsedMs,
		}

		if req != nil {
			keyvals = append(keyvals, definitions.LogKeyMethod, req.Method)
		}

		level.Debug(logger).Log(keyvals...)
	}
}
