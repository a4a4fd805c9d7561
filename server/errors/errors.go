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

package errors

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an engine option that has the wrong type or an unusable value.
type ConfigurationError struct {
	Option string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: option %q", ErrConfiguration, e.Option)
	}

	return fmt.Sprintf("%s: option %q %s", ErrConfiguration, e.Option, e.Reason)
}

// Unwrap makes errors.Is(err, ErrConfiguration) work for every ConfigurationError.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// NewConfigurationError returns a ConfigurationError for option.
func NewConfigurationError(option string, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Option: option, Reason: fmt.Sprintf(format, args...)}
}

// telemetry.

var (
	ErrConfiguration   = errors.New("invalid configuration")
	ErrSamplerInterval = errors.New("sample interval must be positive")
)

// http.

var (
	ErrNotFound      = errors.New("not found")
	ErrNotAcceptable = errors.New("invalid accept type")
)

// config.

var (
	ErrNoConfigFile     = errors.New("no configuration file found")
	ErrUnknownProvider  = errors.New("unknown extension provider")
	ErrRedisNotEnabled  = errors.New("redis provider requested but no redis address configured")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidColorMode = errors.New("invalid log color mode")
)
