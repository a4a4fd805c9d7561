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

// Package config loads the settings of the bundled telemetry server.
package config

import (
	"time"
)

// FileSettings is the decoded configuration file.
type FileSettings struct {
	Server    *ServerSection `mapstructure:"server" validate:"required"`
	Redis     *RedisSection  `mapstructure:"redis"`
	Telemetry map[string]any `mapstructure:"telemetry"`
}

// ServerSection holds the HTTP listener and its endpoints.
type ServerSection struct {
	Address        string        `mapstructure:"address" validate:"required,hostname_port"`
	InstanceName   string        `mapstructure:"instance_name" validate:"omitempty,printascii"`
	Log            Log           `mapstructure:"log"`
	InfoPath       string        `mapstructure:"info_path" validate:"omitempty,startswith=/"`
	PrometheusPath string        `mapstructure:"prometheus_path" validate:"omitempty,startswith=/"`
	InfoCacheTTL   time.Duration `mapstructure:"info_cache_ttl" validate:"gte=0"`
	RoutePatterns  bool          `mapstructure:"route_patterns"`
	HAproxyV2      bool          `mapstructure:"haproxy_v2"`
	TLS            TLS           `mapstructure:"tls"`
	Compression    Compression   `mapstructure:"compression"`
	Pprof          bool          `mapstructure:"pprof"`
	SummaryEvery   time.Duration `mapstructure:"summary_interval" validate:"gte=0"`
	Tracing        Tracing       `mapstructure:"tracing"`
}

// TLS enables HTTPS. HTTP/2 is negotiated via ALPN.
type TLS struct {
	Enabled bool   `mapstructure:"enabled"`
	Cert    string `mapstructure:"cert" validate:"required_if=Enabled true"`
	Key     string `mapstructure:"key" validate:"required_if=Enabled true"`
}

// Compression configures response compression. The first usable algorithm is applied.
type Compression struct {
	Enabled    bool     `mapstructure:"enabled"`
	Algorithms []string `mapstructure:"algorithms" validate:"omitempty,dive,oneof=br brotli zstd zst gzip"`
	Level      int      `mapstructure:"level" validate:"gte=0,lte=3"`
	MinLength  int      `mapstructure:"min_length" validate:"gte=0"`
}

// Tracing configures OpenTelemetry tracing of HTTP requests.
type Tracing struct {
	Enabled          bool     `mapstructure:"enabled"`
	Exporter         string   `mapstructure:"exporter" validate:"omitempty,oneof=otlphttp none"`
	Endpoint         string   `mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure         bool     `mapstructure:"insecure"`
	SamplerRatio     float64  `mapstructure:"sampler_ratio"`
	Propagators      []string `mapstructure:"propagators" validate:"omitempty,dive,oneof=tracecontext baggage b3 b3multi jaeger"`
	ServiceName      string   `mapstructure:"service_name"`
	LogExportResults bool     `mapstructure:"log_export_results"`
}

func (t *Tracing) IsEnabled() bool {
	return t != nil && t.Enabled
}

// Log represents the configuration for logging.
type Log struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=none error warn info debug"`
	JSON  bool   `mapstructure:"json"`
	Color string `mapstructure:"color" validate:"omitempty,oneof=auto always never"`
}

// RedisSection configures the optional redis client whose pool is reported.
type RedisSection struct {
	Address  string `mapstructure:"address" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	PoolSize int    `mapstructure:"pool_size" validate:"gte=0"`
}

func (f *FileSettings) GetServer() *ServerSection {
	if f == nil || f.Server == nil {
		return &ServerSection{}
	}

	return f.Server
}

func (f *FileSettings) GetRedis() *RedisSection {
	if f == nil || f.Redis == nil {
		return &RedisSection{}
	}

	return f.Redis
}

// GetTelemetry returns a copy of the telemetry section. A missing section yields nil.
func (f *FileSettings) GetTelemetry() map[string]any {
	if f == nil || f.Telemetry == nil {
		return nil
	}

	section := make(map[string]any, len(f.Telemetry))
	for key, value := range f.Telemetry {
		section[key] = value
	}

	return section
}

// HaveRedis reports whether a redis address is configured.
func (r *RedisSection) HaveRedis() bool {
	return r != nil && r.Address != ""
}
