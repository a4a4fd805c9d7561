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


// Package httpfx serves the telemetry endpoints of the bundled server.
package httpfx

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/croessner/mfs/server/app/configfx"
	"github.com/croessner/mfs/server/config"
	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/handler/health"
	"github.com/croessner/mfs/server/handler/metrics"
	"github.com/croessner/mfs/server/log/level"
	"github.com/croessner/mfs/server/monitoring"
	"github.com/croessner/mfs/server/router"
	"github.com/croessner/mfs/server/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/pires/go-proxyproto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"golang.org/x/net/http2"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string
	BuildTime string
}

// Module provides the HTTP server and runs it for the lifetime of the application.
var Module = fx.Module("httpfx",
	fx.Provide(
		NewTracing,
		NewHandler,
		NewServer,
	),
	fx.Invoke(registerLifecycle),
)

// NewTracing returns the tracer setup for server.tracing.
func NewTracing(cfg configfx.Provider, logger *slog.Logger) *monitoring.Tracing {
	server := cfg.Current().File.GetServer()

	return monitoring.NewTracing(&server.Tracing, server.InstanceName, logger)
}

type handlerIn struct {
	fx.In

	Config  configfx.Provider
	Engine  *telemetry.Engine
	Logger  *slog.Logger
	Tracing *monitoring.Tracing
	Redis   *redis.Client `optional:"true"`
}

// NewHandler assembles the gin engine with the telemetry middleware registered first.
func NewHandler(in handlerIn) http.Handler {
	server := in.Config.Current().File.GetServer()

	setupGinLoggers(in.Logger, server.Log.Level)

	healthDeps := health.Deps{Logger: in.Logger, Sampler: in.Engine}
	if in.Redis != nil {
		healthDeps.Redis = in.Redis
	}

	return router.NewRouter(server, in.Logger).
		WithTelemetry(in.Engine).
		WithTracing(in.Tracing.Enabled(), in.Tracing.ServiceName()).
		WithLogging().
		WithRecovery().
		WithResponseCompression().
		WithPprof().
		WithHandlers(
			health.New(healthDeps),
			metrics.New(in.Engine, in.Logger, metrics.Options{
				InfoPath:       server.InfoPath,
				PrometheusPath: server.PrometheusPath,
				CacheTTL:       server.InfoCacheTTL,
			}),
		).
		Build()
}

// NewServer returns the server for server.address. With TLS enabled HTTP/2 is offered via ALPN.
func NewServer(cfg configfx.Provider, handler http.Handler, logger *slog.Logger) *http.Server {
	section := cfg.Current().File.GetServer()

	server := &http.Server{
		Addr:              section.Address,
		Handler:           handler,
		ReadHeaderTimeout: definitions.ReadHeaderTimeout,
	}

	if section.TLS.Enabled {
		server.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			NextProtos: []string{"h2", "http/1.1"},
		}

		if err := http2.ConfigureServer(server, &http2.Server{}); err != nil {
			level.Error(logger).Log(definitions.LogKeyMsg, "Failed to configure HTTP/2 server", definitions.LogKeyError, err)
		}
	}

	return server
}

// Listen opens the listening socket. With haproxy_v2 every connection must start with a
// PROXY protocol header.
func Listen(section *config.ServerSection) (net.Listener, error) {
	ln, err := net.Listen("tcp", section.Address)
	if err != nil {
		return nil, err
	}

	if !section.HAproxyV2 {
		return ln, nil
	}

	return &proxyproto.Listener{
		Listener: ln,
		ConnPolicy: func(proxyproto.ConnPolicyOptions) (proxyproto.Policy, error) {
			return proxyproto.REQUIRE, nil
		},
	}, nil
}

type lifecycleIn struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cancel    context.CancelFunc
	Config    configfx.Provider
	Server    *http.Server
	Tracing   *monitoring.Tracing
	Logger    *slog.Logger
	Build     BuildInfo `optional:"true"`
}

func registerLifecycle(in lifecycleIn) {
	in.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			in.Tracing.Start(ctx, in.Build.Version)

			section := in.Config.Current().File.GetServer()

			ln, err := Listen(section)
			if err != nil {
				return err
			}

			level.Info(in.Logger).Log(
				definitions.LogKeyMsg, "Starting mfs HTTP server",
				definitions.LogKeyAddress, ln.Addr().String(),
				"tls", section.TLS.Enabled,
				"haproxy_v2", section.HAproxyV2,
				definitions.LogKeyVersion, in.Build.Version,
				definitions.LogKeyBuildTime, in.Build.BuildTime,
			)

			go Serve(in.Server, ln, section.TLS, in.Logger, in.Cancel)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return multierr.Combine(
				in.Server.Shutdown(ctx),
				in.Tracing.Shutdown(ctx),
			)
		},
	})
}

// Serve runs server on ln. Any error other than a regular shutdown cancels the application.
func Serve(server *http.Server, ln net.Listener, tlsCfg config.TLS, logger *slog.Logger, cancel context.CancelFunc) {
	var err error

	if tlsCfg.Enabled {
		err = server.ServeTLS(ln, tlsCfg.Cert, tlsCfg.Key)
	} else {
		err = server.Serve(ln)
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		level.Error(logger).Log(definitions.LogKeyMsg, "HTTP server failed", definitions.LogKeyError, err)

		if cancel != nil {
			cancel()
		}
	}
}

// ginWriter forwards gin's own output to slog.
type ginWriter struct {
	logger  *slog.Logger
	isError bool
}

func (w *ginWriter) Write(p []byte) (int, error) {
	if w.isError {
		_ = level.Error(w.logger).Log(definitions.LogKeyMsg, string(p))
	} else {
		_ = level.Debug(w.logger).Log(definitions.LogKeyMsg, string(p))
	}

	return len(p), nil
}

func setupGinLoggers(logger *slog.Logger, logLevel string) {
	gin.DefaultWriter = &ginWriter{logger: logger}
	gin.DefaultErrorWriter = &ginWriter{logger: logger, isError: true}

	if logLevel != definitions.LogLevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	gin.DisableConsoleColor()
}
