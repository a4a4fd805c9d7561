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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfigFile(t, "mfs.yaml", `server:
  address: "0.0.0.0:8080"
  log:
    level: debug
    json: true
  info_cache_ttl: 2s
  pprof: true
  tracing:
    enabled: true
    endpoint: "otel:4318"
    propagators: [tracecontext, b3]
redis:
  address: "localhost:6379"
  pool_size: 4
telemetry:
  totals: true
  rps: false
  providers: [runtime, cpu]
`)

	settings, err := NewLoader().Load(path)
	require.NoError(t, err)

	server := settings.GetServer()
	assert.Equal(t, "0.0.0.0:8080", server.Address)
	assert.Equal(t, definitions.LogLevelDebug, server.Log.Level)
	assert.True(t, server.Log.JSON)
	assert.Equal(t, definitions.LogColorAuto, server.Log.Color)
	assert.Equal(t, 2*time.Second, server.InfoCacheTTL)
	assert.Equal(t, definitions.DefaultInfoPath, server.InfoPath)
	assert.True(t, server.Compression.Enabled)
	assert.Equal(t, []string{"zstd", "gzip"}, server.Compression.Algorithms)
	assert.False(t, server.TLS.Enabled)
	assert.True(t, server.Pprof)
	assert.True(t, server.Tracing.IsEnabled())
	assert.Equal(t, "otlphttp", server.Tracing.Exporter)
	assert.Equal(t, 1.0, server.Tracing.SamplerRatio)
	assert.Equal(t, []string{"tracecontext", "b3"}, server.Tracing.Propagators)

	assert.True(t, settings.GetRedis().HaveRedis())
	assert.Equal(t, 4, settings.GetRedis().PoolSize)

	telemetry := settings.GetTelemetry()
	assert.Equal(t, true, telemetry["totals"])
	assert.Equal(t, false, telemetry["rps"])
	assert.Equal(t, []any{"runtime", "cpu"}, telemetry["providers"])
}

func TestLoadEnvironmentOverride(t *testing.T) {
	path := writeConfigFile(t, "mfs.yaml", "server:\n  address: \"127.0.0.1:1\"\n")

	t.Setenv("MFS_SERVER_ADDRESS", "127.0.0.1:2")
	t.Setenv("MFS_SERVER_INFO_PATH", "/stats")

	settings, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:2", settings.GetServer().Address)
	assert.Equal(t, "/stats", settings.GetServer().InfoPath)
	assert.Nil(t, settings.GetTelemetry())
	assert.False(t, settings.GetRedis().HaveRedis())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"address":   "server:\n  address: \"no-port\"\n",
		"log level": "server:\n  log:\n    level: chatty\n",
		"color":     "server:\n  log:\n    color: rainbow\n",
		"path":      "server:\n  info_path: metrics\n",
		"exporter":  "server:\n  tracing:\n    exporter: zipkin\n",
		"algorithm": "server:\n  compression:\n    algorithms: [lz4]\n",
		"tls":       "server:\n  tls:\n    enabled: true\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader().Load(writeConfigFile(t, "mfs.yaml", content))
			assert.ErrorIs(t, err, errors.ErrConfiguration)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, errors.ErrNoConfigFile)
}

func TestNilSettingsGetters(t *testing.T) {
	var settings *FileSettings

	assert.NotNil(t, settings.GetServer())
	assert.NotNil(t, settings.GetRedis())
	assert.Nil(t, settings.GetTelemetry())
}
