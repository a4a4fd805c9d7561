// Copyright (C) 2024 Christian Rößner
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

package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/croessner/mfs/server/definitions"
	"github.com/croessner/mfs/server/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantDebug bool
		wantError bool
		wantJSON  bool
	}{
		{name: "none drops everything", opts: Options{Level: definitions.LogLevelNone}},
		{name: "error text", opts: Options{Level: definitions.LogLevelError}, wantError: true},
		{name: "info json", opts: Options{Level: definitions.LogLevelInfo, JSON: true}, wantError: true, wantJSON: true},
		{name: "debug colored", opts: Options{Level: definitions.LogLevelDebug, Color: definitions.LogColorAlways}, wantDebug: true, wantError: true},
		{name: "auto color on buffer", opts: Options{Level: definitions.LogLevelDebug, Color: definitions.LogColorAuto}, wantDebug: true, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.opts.Output = buf
			tt.opts.Instance = "test"

			logger, err := SetupLogging(tt.opts)
			require.NoError(t, err)
			assert.Same(t, logger, Logger)

			logger.Debug("debug line")
			logger.Error("error line")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug line"))
			assert.Equal(t, tt.wantError, strings.Contains(out, "error line"))

			if tt.wantJSON {
				assert.Contains(t, out, `"instance":"test"`)
			}
		})
	}
}

func TestSetupLoggingRejectsUnknownValues(t *testing.T) {
	_, err := SetupLogging(Options{Level: "verbose", Output: &bytes.Buffer{}})
	assert.ErrorIs(t, err, errors.ErrInvalidLogLevel)

	_, err = SetupLogging(Options{Level: "info", Color: "rainbow", Output: &bytes.Buffer{}})
	assert.ErrorIs(t, err, errors.ErrInvalidColorMode)
}

func TestSetLevelAdjustsExistingLogger(t *testing.T) {
	buf := &bytes.Buffer{}

	logger, err := SetupLogging(Options{Level: definitions.LogLevelInfo, Output: buf})
	require.NoError(t, err)

	logger.Debug("before")
	require.NoError(t, SetLevel(definitions.LogLevelDebug))
	logger.Debug("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")

	assert.ErrorIs(t, SetLevel("loud"), errors.ErrInvalidLogLevel)
}
