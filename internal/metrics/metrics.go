// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

// Package metrics exposes Prometheus instrumentation for the feed adapter,
// vessel registry, broadcast hub, and API endpoints.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed Metrics
	FeedMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_messages_total",
			Help: "Total number of inbound feed messages by kind and result",
		},
		[]string{"kind", "result"}, // kind: position, static, other; result: merged, dropped
	)

	FeedReconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_reconnects_total",
			Help: "Total number of live feed reconnect attempts",
		},
	)

	FeedConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_connected",
			Help: "Whether the live AIS feed connection is currently open (1/0)",
		},
	)

	FeedDemoMode = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_demo_mode",
			Help: "Whether the feed adapter is running the demo fleet (1/0)",
		},
	)

	// Registry Metrics
	RegistryVessels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_vessels",
			Help: "Current number of vessels tracked in the registry",
		},
	)

	RegistryMergesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registry_merges_total",
			Help: "Total number of partial updates merged into the registry",
		},
	)

	// Broadcast / WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket subscriber connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket frames sent to subscribers",
		},
	)

	BroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_snapshots_total",
			Help: "Total number of full-snapshot broadcast ticks",
		},
	)

	BroadcastDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "broadcast_snapshot_duration_seconds",
			Help:    "Time to marshal and enqueue one full-snapshot broadcast",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate-limited API requests",
		},
		[]string{"endpoint"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFeedMessage records one inbound feed message outcome.
func RecordFeedMessage(kind, result string) {
	FeedMessagesTotal.WithLabelValues(kind, result).Inc()
}

// SetDemoMode flips the demo-mode gauge.
func SetDemoMode(demo bool) {
	if demo {
		FeedDemoMode.Set(1)
	} else {
		FeedDemoMode.Set(0)
	}
}

// SetFeedConnected flips the feed connection gauge.
func SetFeedConnected(connected bool) {
	if connected {
		FeedConnected.Set(1)
	} else {
		FeedConnected.Set(0)
	}
}
