// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/finplay/internal/logging"
	"github.com/tomtom215/finplay/internal/metrics"
	"github.com/tomtom215/finplay/internal/models"
)

// Ensure BreakerClient implements API
var _ API = (*BreakerClient)(nil)

// BreakerSettings tunes the circuit breaker. Zero values select the defaults
// used by NewBreakerClient.
type BreakerSettings struct {
	Name         string
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration
	Timeout      time.Duration
}

// BreakerClient wraps Client with the circuit breaker pattern so an
// unreachable server fails fast instead of stacking 30 second timeouts.
//
// Only transport failures, timeouts and 5xx responses count as failures.
// Absent optional resources, wrong credentials and other 4xx statuses are
// answers from a healthy server.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewBreakerClient creates a circuit breaker around client.
// Default configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewBreakerClient(client *Client, s BreakerSettings) *BreakerClient {
	if s.Name == "" {
		s.Name = "jellyfin-api"
	}
	if s.MinRequests == 0 {
		s.MinRequests = 10
	}
	if s.FailureRatio <= 0 {
		s.FailureRatio = 0.6
	}
	if s.Interval <= 0 {
		s.Interval = time.Minute
	}
	if s.Timeout <= 0 {
		s.Timeout = 2 * time.Minute
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 3,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRatio
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || isExpected(err) || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := from.String(), to.String()
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerClient{client: client, cb: cb, name: s.Name}
}

// Unwrap returns the underlying client.
func (b *BreakerClient) Unwrap() *Client {
	return b.client
}

// State returns the breaker's current state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

// execute runs fn through the breaker and records the outcome.
func (b *BreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%s: %w: %w", b.name, ErrNetwork, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// call adapts a typed API call to execute.
func call[T any](b *BreakerClient, fn func() (T, error)) (T, error) {
	result, err := b.execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		var zero T
		return zero, errors.New("circuit breaker: unexpected result type")
	}
	return typed, nil
}

func (b *BreakerClient) PublicInfo(ctx context.Context) (*models.PublicSystemInfo, error) {
	return call(b, func() (*models.PublicSystemInfo, error) { return b.client.PublicInfo(ctx) })
}

func (b *BreakerClient) Ping(ctx context.Context) error {
	_, err := b.execute(func() (interface{}, error) { return nil, b.client.Ping(ctx) })
	return err
}

func (b *BreakerClient) AuthenticateByName(ctx context.Context, username, password string) (*models.Account, error) {
	return call(b, func() (*models.Account, error) { return b.client.AuthenticateByName(ctx, username, password) })
}

func (b *BreakerClient) Logout(ctx context.Context) error {
	_, err := b.execute(func() (interface{}, error) { return nil, b.client.Logout(ctx) })
	return err
}

func (b *BreakerClient) Views(ctx context.Context) (*models.Page[models.MediaItem], error) {
	return call(b, func() (*models.Page[models.MediaItem], error) { return b.client.Views(ctx) })
}

func (b *BreakerClient) Items(ctx context.Context, q models.ItemQuery) (*models.Page[models.MediaItem], error) {
	return call(b, func() (*models.Page[models.MediaItem], error) { return b.client.Items(ctx, q) })
}

func (b *BreakerClient) Item(ctx context.Context, itemID string) (*models.MediaItem, error) {
	return call(b, func() (*models.MediaItem, error) { return b.client.Item(ctx, itemID) })
}

func (b *BreakerClient) Resume(ctx context.Context, parentID string, limit int) (*models.Page[models.MediaItem], error) {
	return call(b, func() (*models.Page[models.MediaItem], error) { return b.client.Resume(ctx, parentID, limit) })
}

func (b *BreakerClient) NextUp(ctx context.Context, seriesID string, limit int) (*models.Page[models.MediaItem], error) {
	return call(b, func() (*models.Page[models.MediaItem], error) { return b.client.NextUp(ctx, seriesID, limit) })
}

func (b *BreakerClient) Seasons(ctx context.Context, seriesID string) (*models.Page[models.MediaItem], error) {
	return call(b, func() (*models.Page[models.MediaItem], error) { return b.client.Seasons(ctx, seriesID) })
}

func (b *BreakerClient) Episodes(ctx context.Context, seriesID, seasonID string) (*models.Page[models.MediaItem], error) {
	return call(b, func() (*models.Page[models.MediaItem], error) { return b.client.Episodes(ctx, seriesID, seasonID) })
}

func (b *BreakerClient) ReportPlayback(ctx context.Context, report *models.PlaybackProgressReport) error {
	_, err := b.execute(func() (interface{}, error) { return nil, b.client.ReportPlayback(ctx, report) })
	return err
}

func (b *BreakerClient) IntroTimestamps(ctx context.Context, episodeID string) (*models.IntroTimestamps, error) {
	return call(b, func() (*models.IntroTimestamps, error) { return b.client.IntroTimestamps(ctx, episodeID) })
}

func (b *BreakerClient) TrickplayManifest(ctx context.Context, itemID string) (*models.TrickplayManifest, error) {
	return call(b, func() (*models.TrickplayManifest, error) { return b.client.TrickplayManifest(ctx, itemID) })
}

func (b *BreakerClient) TrickplayBIF(ctx context.Context, itemID string, width int) ([]byte, error) {
	return call(b, func() ([]byte, error) { return b.client.TrickplayBIF(ctx, itemID, width) })
}

func (b *BreakerClient) FetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	return call(b, func() ([]byte, error) { return b.client.FetchURL(ctx, rawURL) })
}

// stateToFloat converts circuit breaker state to float for Prometheus metrics
// 0 = closed, 1 = half-open, 2 = open
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
