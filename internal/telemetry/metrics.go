/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// API metrics.
var (
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heimdall",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total HTTP requests handled, by method, endpoint and status.",
	}, []string{"method", "endpoint", "status"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "heimdall",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by method, endpoint and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "heimdall",
		Subsystem: "api",
		Name:      "active_connections",
		Help:      "HTTP requests currently in flight.",
	})
)

// Scheduler metrics.
var (
	SchedulesBuiltTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heimdall",
		Subsystem: "scheduler",
		Name:      "schedules_built_total",
		Help:      "Schedule builds, by mode (fresh or continued) and status.",
	}, []string{"mode", "status"})

	AssignmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "heimdall",
		Subsystem: "scheduler",
		Name:      "assignments_total",
		Help:      "Guard shift assignments produced across all builds.",
	})

	CoverageGapsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "heimdall",
		Subsystem: "scheduler",
		Name:      "coverage_gaps_total",
		Help:      "Required slots no available guard could fill.",
	})

	ScheduleBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "heimdall",
		Subsystem: "scheduler",
		Name:      "build_duration_seconds",
		Help:      "Wall time spent solving one schedule build.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	})
)

// Database metrics.
var (
	DatabaseQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "heimdall",
		Subsystem: "db",
		Name:      "query_duration_seconds",
		Help:      "Database operation latency, by operation and table.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "table"})

	DatabaseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heimdall",
		Subsystem: "db",
		Name:      "errors_total",
		Help:      "Database errors, by operation and kind.",
	}, []string{"operation", "kind"})

	DatabaseConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "heimdall",
		Subsystem: "db",
		Name:      "connections_active",
		Help:      "Open database connections.",
	})
)

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
