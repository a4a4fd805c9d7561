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

// Package common holds request checks shared by the HTTP handlers.
package common

import (
	"net/http"

	"github.com/croessner/mfs/server/errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// RequireJSONGet aborts requests that are not GET with 404 and requests that do not
// accept JSON with 406. It reports whether the handler may continue.
func RequireJSONGet(ctx *gin.Context) bool {
	if ctx.Request.Method != http.MethodGet {
		_ = ctx.AbortWithError(http.StatusNotFound, errors.ErrNotFound)

		return false
	}

	if ctx.NegotiateFormat(binding.MIMEJSON) == "" {
		_ = ctx.AbortWithError(http.StatusNotAcceptable, errors.ErrNotAcceptable)

		return false
	}

	return true
}
