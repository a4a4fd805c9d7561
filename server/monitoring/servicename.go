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

package monitoring

import (
	"net"
	"os"
	"strings"

	"github.com/croessner/mfs/server/definitions"
)

// ResolveServiceName picks the first of configured, instance, host name and fallback that
// is set and not an IP address. Without any candidate it returns definitions.ServiceName.
func ResolveServiceName(configured, instance, fallback string) string {
	for _, candidate := range []string{configured, instance, hostname()} {
		if s := strings.TrimSpace(candidate); s != "" && !looksLikeIP(s) {
			return s
		}
	}

	if s := strings.TrimSpace(fallback); s != "" {
		return s
	}

	return definitions.ServiceName
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}

	return h
}

func looksLikeIP(s string) bool {
	host := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "["), "]")

	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	return net.ParseIP(host) != nil
}
