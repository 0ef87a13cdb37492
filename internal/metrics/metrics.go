// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API client metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finplay_api_request_duration_seconds",
			Help:    "Duration of media server API requests in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint", "status"}, // status: HTTP code, "network", "timeout"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "finplay_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finplay_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finplay_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Playback session reporting
	PlaybackReports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finplay_playback_reports_total",
			Help: "Playback reports sent to the server",
		},
		[]string{"event", "result"}, // event: started, progress, stopped
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "finplay_playback_active_sessions",
			Help: "Playback sessions currently reporting",
		},
	)

	ResolverSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finplay_resolver_steps_total",
			Help: "Playback resolver lookups by step and outcome",
		},
		[]string{"step", "outcome"}, // outcome: hit, empty, error
	)

	// Image cache
	ImageCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finplay_image_cache_requests_total",
			Help: "Image cache lookups by result",
		},
		[]string{"result"}, // memory, disk, fetched, error
	)

	ImageFetchBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "finplay_image_fetch_bytes_total",
			Help: "Bytes of image data downloaded",
		},
	)

	// Server notifications
	NotifierConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "finplay_notifier_connected",
			Help: "1 while the server notification socket is connected",
		},
	)

	NotifierMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finplay_notifier_messages_total",
			Help: "Server notification messages received by type",
		},
		[]string{"type"},
	)
)

// RecordAPIRequest records the latency of one API call. A zero status means
// the request never produced a response.
func RecordAPIRequest(endpoint string, status int, duration time.Duration) {
	label := "network"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	APIRequestDuration.WithLabelValues(endpoint, label).Observe(duration.Seconds())
}

// RecordAPITimeout records a request that hit its deadline.
func RecordAPITimeout(endpoint string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(endpoint, "timeout").Observe(duration.Seconds())
}

// RecordPlaybackReport counts one started/progress/stopped report.
func RecordPlaybackReport(event string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	PlaybackReports.WithLabelValues(event, result).Inc()
}

// RecordResolverStep counts one resolver lookup.
func RecordResolverStep(step, outcome string) {
	ResolverSteps.WithLabelValues(step, outcome).Inc()
}

// RecordImageCache counts one image cache lookup.
func RecordImageCache(result string) {
	ImageCacheRequests.WithLabelValues(result).Inc()
}
