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

package definitions

import "time"

const (
	// ServiceName is the name reported by the bundled server and used as the OpenTelemetry service name.
	ServiceName = "mfs"

	// DefaultConfigName is the base name of the configuration file searched in the default locations.
	DefaultConfigName = "mfs"

	// EnvPrefix is the prefix for environment variables overriding configuration keys.
	EnvPrefix = "MFS"
)

// Request rate sampling.
const (
	// SampleInterval is the duration of one bucket in the request rate sample ring.
	SampleInterval = 5 * time.Second

	// Rate1mSamples is the number of buckets covering the one minute window.
	Rate1mSamples = 12

	// Rate5mSamples is the number of buckets covering the five minute window.
	Rate5mSamples = 60

	// Rate15mSamples is the number of buckets covering the fifteen minute window.
	Rate15mSamples = 180
)

// Configuration option keys accepted by the telemetry engine.
const (
	OptionTotals     = "totals"
	OptionRPS        = "rps"
	OptionMethods    = "methods"
	OptionMethodInfo = "method_info"
	OptionExtraInfo  = "extra_info"
)

// Keys of the telemetry section of the configuration file besides the engine options.
const (
	TelemetryKeyMethodLog = "method_log"
	TelemetryKeyProviders = "providers"
)

// Defaults of the bundled server.
const (
	DefaultAddress        = "127.0.0.1:9080"
	DefaultInstanceName   = "mfs"
	DefaultInfoPath       = "/mfs/metrics"
	DefaultPrometheusPath = "/metrics"
	DefaultRedisPoolSize  = 10
	ShutdownTimeout       = 10 * time.Second
	ReadHeaderTimeout     = 10 * time.Second
)

// Built-in extension provider names.
const (
	ProviderRuntime   = "runtime"
	ProviderCPU       = "cpu"
	ProviderRedisPool = "redisPool"
)

const (
	// InfoRouteName is recorded for info endpoint requests that arrive without a route name.
	InfoRouteName = "mfs_metrics"

	// PrometheusRouteName is the route name of the Prometheus scrape endpoint.
	PrometheusRouteName = "mfs_prometheus"

	// PingRouteName is the route name of the bundled ping endpoint.
	PingRouteName = "ping"

	// CtxTelemetryKey is the gin context key holding the request's telemetry context.
	CtxTelemetryKey = "mfs_telemetry"

	// CtxGUIDKey is the gin context key holding the request GUID.
	CtxGUIDKey = "guid"

	// UptimeFormat renders days, hours, minutes and seconds of uptime.
	UptimeFormat = "%dd:%dh:%dm:%ds"

	// RedisPingTimeout bounds the redis ping of the readiness check and the startup check.
	RedisPingTimeout = 2 * time.Second

	// NotAvailable is logged for values that could not be determined.
	NotAvailable = "N/A"
)

// Log levels understood by the configuration.
const (
	LogLevelNone  = "none"
	LogLevelError = "error"
	LogLevelWarn  = "warn"
	LogLevelInfo  = "info"
	LogLevelDebug = "debug"
)

// Colour modes for the text log handler.
const (
	LogColorAuto   = "auto"
	LogColorAlways = "always"
	LogColorNever  = "never"
)

// Log keys.
const (
	LogKeyMsg          = "msg"
	LogKeyError        = "error"
	LogKeyInstance     = "instance"
	LogKeyGUID         = "guid"
	LogKeyClientIP     = "client_ip"
	LogKeyMethod       = "method"
	LogKeyProtocol     = "protocol"
	LogKeyHTTPStatus   = "http_status"
	LogKeyTLSVersion   = "tls_protocol"
	LogKeyLatency      = "latency"
	LogKeyUserAgent    = "user_agent"
	LogKeyUriPath      = "uri_path"
	LogKeyRoute        = "route"
	LogKeyOption       = "option"
	LogKeyInterval     = "interval"
	LogKeyTotals       = "totals"
	LogKeyRPS          = "rps"
	LogKeyMethods      = "methods"
	LogKeyProviders    = "providers"
	LogKeyAddress      = "address"
	LogKeyConfigFile   = "config_file"
	LogKeyProviderName = "provider"
	LogKeyUptime       = "uptime"
	LogKeyRSS          = "rss"
	LogKeyHeapAlloc    = "heap_alloc"
	LogKeyNumGC        = "num_gc"
	LogKeyTotal        = "total"
	LogKeySuccess      = "success"
	LogKeyFailure      = "failure"
	LogKeyRPS1         = "rps1"
	LogKeyRoutes       = "routes"
	LogKeyVersion      = "version"
	LogKeyElapsed      = "elapsed_ms"
	LogKeyCheck        = "check"
	LogKeyComponent    = "component"
	LogKeySignal       = "signal"
	LogKeyBuildTime    = "build_time"
)
