// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

/*
Package metrics provides Prometheus instrumentation for the client core.

All collectors are registered on the default registry through promauto, so
exposing them only needs promhttp.Handler():

	http.Handle("/metrics", promhttp.Handler())

# Available Metrics

API client:
  - finplay_api_request_duration_seconds: request latency (histogram)
    Labels: endpoint, status
  - finplay_circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - finplay_circuit_breaker_requests_total: success, failure, rejected
  - finplay_circuit_breaker_state_transitions_total

Playback:
  - finplay_playback_reports_total: Labels: event, result
  - finplay_playback_active_sessions
  - finplay_resolver_steps_total: Labels: step, outcome

Images:
  - finplay_image_cache_requests_total: Labels: result
  - finplay_image_fetch_bytes_total

Notifications:
  - finplay_notifier_connected
  - finplay_notifier_messages_total: Labels: type
*/
package metrics
