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


package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/croessner/mfs/server/app/configfx"
	"github.com/croessner/mfs/server/app/httpfx"
	"github.com/croessner/mfs/server/app/logfx"
	"github.com/croessner/mfs/server/app/loopsfx"
	"github.com/croessner/mfs/server/app/redifx"
	"github.com/croessner/mfs/server/app/reloadfx"
	"github.com/croessner/mfs/server/app/signalsfx"
	"github.com/croessner/mfs/server/app/telemetryfx"
	"github.com/croessner/mfs/server/definitions"

	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
)

var (
	version   = "dev"
	buildTime = ""
)

func rootContextOption(ctx context.Context, cancel context.CancelFunc) fx.Option {
	return fx.Provide(
		func() context.Context {
			return ctx
		},
		func() context.CancelFunc {
			return cancel
		},
	)
}

// appOptions wires the whole server. configPath may be empty to search the default locations.
func appOptions(ctx context.Context, cancel context.CancelFunc, configPath string) fx.Option {
	return fx.Options(
		fx.WithLogger(logfx.NewFxEventLogger),
		rootContextOption(ctx, cancel),
		fx.Supply(
			configfx.Path(configPath),
			httpfx.BuildInfo{Version: version, BuildTime: buildTime},
		),
		configfx.Module,
		logfx.Module,
		reloadfx.Module,
		redifx.Module,
		telemetryfx.Module,
		loopsfx.Module,
		httpfx.Module,
		signalsfx.Module(),
	)
}

func main() {
	configPath := flag.StringP("config", "c", "", "path to the configuration file")
	showVersion := flag.BoolP("version", "v", false, "print version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Println("Version:", version)
		os.Exit(0)
	}

	// Signals before the controller runs still end the process cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := fx.New(appOptions(ctx, cancel, *configPath))

	if err := app.Start(context.Background()); err != nil {
		stdlog.Fatalln("Unable to start mfs. Error:", err)
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), definitions.ShutdownTimeout)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		stdlog.Printf("Unable to stop mfs. Error: %v", err)
	}
}
