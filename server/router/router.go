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

// Package router assembles the gin engine of the bundled server.
package router

import (
	"log/slog"

	"github.com/croessner/mfs/server/config"

	"github.com/gin-gonic/gin"
)

// Registrar adds routes to a router.
type Registrar interface {
	Register(router gin.IRouter)
}

// Router is a small builder around gin.Engine to assemble middlewares and routes
// without leaking application-specific logic into this package.
type Router struct {
	Engine *gin.Engine
	Cfg    *config.ServerSection
	Logger *slog.Logger
}

// NewRouter creates a new Router builder with a fresh gin.Engine.
func NewRouter(cfg *config.ServerSection, logger *slog.Logger) *Router {
	if cfg == nil {
		cfg = &config.ServerSection{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Router{Engine: gin.New(), Cfg: cfg, Logger: logger}
}

// Build returns the underlying gin.Engine.
func (r *Router) Build() *gin.Engine {
	return r.Engine
}
