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

// Package stats exports telemetry engine figures to Prometheus and the process log.
package stats

import (
	"time"

	"github.com/croessner/mfs/server/telemetry"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mfs"

// Source is the read side of the telemetry engine.
type Source interface {
	Counters() (telemetry.Counters, bool)
	Rates() (telemetry.Rates, bool)
	Routes() ([]telemetry.RouteStat, bool)
	Uptime() time.Duration
}

// Collector reads the engine on every scrape. Disabled features produce no series.
type Collector struct {
	source Source

	requestsTotal  *prometheus.Desc
	requestsPerSec *prometheus.Desc
	routeCalls     *prometheus.Desc
	routeLatency   *prometheus.Desc
	uptime         *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a Collector for source.
func NewCollector(source Source) *Collector {
	return &Collector{
		source: source,
		requestsTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "requests_total"),
			"Number of finished HTTP requests by result.",
			[]string{"result"}, nil,
		),
		requestsPerSec: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "requests_per_second"),
			"Weighted moving average of the request rate.",
			[]string{"window"}, nil,
		),
		routeCalls: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "route", "calls_total"),
			"Number of calls per route.",
			[]string{"route"}, nil,
		),
		routeLatency: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "route", "latency_average_milliseconds"),
			"Average latency per route in milliseconds.",
			[]string{"route"}, nil,
		),
		uptime: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "uptime_seconds"),
			"Seconds since the telemetry engine was created.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requestsTotal
	ch <- c.requestsPerSec
	ch <- c.routeCalls
	ch <- c.routeLatency
	ch <- c.uptime
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, c.source.Uptime().Seconds())

	if counters, ok := c.source.Counters(); ok {
		ch <- prometheus.MustNewConstMetric(c.requestsTotal, prometheus.CounterValue, float64(counters.Success), "success")
		ch <- prometheus.MustNewConstMetric(c.requestsTotal, prometheus.CounterValue, float64(counters.Failure), "failure")
	}

	if rates, ok := c.source.Rates(); ok {
		values := [3]float64{rates.RPS1, rates.RPS5, rates.RPS15}

		for i, window := range telemetry.DefaultWindows {
			ch <- prometheus.MustNewConstMetric(c.requestsPerSec, prometheus.GaugeValue, values[i], window.Name)
		}
	}

	if routes, ok := c.source.Routes(); ok {
		for _, route := range routes {
			ch <- prometheus.MustNewConstMetric(c.routeCalls, prometheus.CounterValue, float64(route.Count), route.Name)
			ch <- prometheus.MustNewConstMetric(c.routeLatency, prometheus.GaugeValue, route.AvgLatencyMs, route.Name)
		}
	}
}
