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


/*
mfs is a small HTTP server that measures its own traffic: request totals, request rates
over one, five and fifteen minutes and per-route latency. The figures are served as JSON
on the info endpoint and in the Prometheus text format.

Send SIGHUP to reload the configuration file and SIGUSR1 to log a telemetry summary.
*/
package main
