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

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Loader reads the configuration file and MFS_ environment overrides.
type Loader struct {
	v        *viper.Viper
	validate *validator.Validate
}

// NewLoader returns a Loader with the built-in defaults applied.
func NewLoader() *Loader {
	v := viper.New()

	v.SetDefault("server.address", definitions.DefaultAddress)
	v.SetDefault("server.instance_name", definitions.DefaultInstanceName)
	v.SetDefault("server.log.level", definitions.LogLevelInfo)
	v.SetDefault("server.log.json", false)
	v.SetDefault("server.log.color", definitions.LogColorAuto)
	v.SetDefault("server.info_path", definitions.DefaultInfoPath)
	v.SetDefault("server.prometheus_path", definitions.DefaultPrometheusPath)
	v.SetDefault("server.info_cache_ttl", "0s")
	v.SetDefault("server.route_patterns", false)
	v.SetDefault("server.haproxy_v2", false)
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("server.tls.cert", "")
	v.SetDefault("server.tls.key", "")
	v.SetDefault("server.compression.enabled", true)
	v.SetDefault("server.compression.algorithms", []string{"zstd", "gzip"})
	v.SetDefault("server.compression.level", 0)
	v.SetDefault("server.compression.min_length", 0)
	v.SetDefault("server.pprof", false)
	v.SetDefault("server.summary_interval", "0s")
	v.SetDefault("server.tracing.enabled", false)
	v.SetDefault("server.tracing.exporter", "otlphttp")
	v.SetDefault("server.tracing.endpoint", "")
	v.SetDefault("server.tracing.insecure", true)
	v.SetDefault("server.tracing.sampler_ratio", 1.0)
	v.SetDefault("server.tracing.propagators", []string{})
	v.SetDefault("server.tracing.service_name", "")
	v.SetDefault("server.tracing.log_export_results", false)
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", definitions.DefaultRedisPoolSize)

	v.SetEnvPrefix(definitions.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{
		v:        v,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load reads path. With an empty path the default locations are searched and a missing
// file is not an error; the defaults are used instead.
func (l *Loader) Load(path string) (*FileSettings, error) {
	if path != "" {
		l.v.SetConfigFile(path)
	} else {
		l.v.SetConfigName(definitions.DefaultConfigName)
		l.v.AddConfigPath("/usr/local/etc/mfs/")
		l.v.AddConfigPath("/etc/mfs/")
		l.v.AddConfigPath("$HOME/.mfs")
		l.v.AddConfigPath(".")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError

		switch {
		case stderrors.As(err, &notFound) && path == "":
			// Defaults and environment only.
		case stderrors.As(err, &notFound) || stderrors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %w", errors.ErrNoConfigFile, err)
		default:
			return nil, fmt.Errorf("read configuration: %w", err)
		}
	}

	settings := &FileSettings{}

	err := l.v.Unmarshal(settings, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	if err = l.validate.Struct(settings); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfiguration, err)
	}

	return settings, nil
}

// ConfigFileUsed returns the file that was read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}
