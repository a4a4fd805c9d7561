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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, code int, body string) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv.URL
}

func TestCheckUp(t *testing.T) {
	url := serve(t, http.StatusOK, `{"status":"up","checks":{"sampler":{"status":"up"},"redis":{"status":"skipped"}}}`)

	result, err := check(http.DefaultClient, url)
	require.NoError(t, err)
	assert.Equal(t, "up", result.Status)
	assert.Len(t, result.Checks, 2)
}

func TestCheckDown(t *testing.T) {
	url := serve(t, http.StatusServiceUnavailable, `{"status":"down","checks":{"redis":{"status":"down","error":"dial tcp: refused"}}}`)

	result, err := check(http.DefaultClient, url)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "dial tcp: refused", result.Checks["redis"].Error)
}

func TestCheckGarbage(t *testing.T) {
	url := serve(t, http.StatusOK, "pong")

	_, err := check(http.DefaultClient, url)
	assert.Error(t, err)
}
