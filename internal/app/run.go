// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package app

import (
	"context"
	"errors"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/finplay/internal/client"
	"github.com/tomtom215/finplay/internal/logging"
	"github.com/tomtom215/finplay/internal/supervisor/services"
)

// ErrAlreadyRunning is returned by a second concurrent Run.
var ErrAlreadyRunning = errors.New("app is already running")

// Run serves the supervisor tree until ctx is canceled: the metrics
// endpoint when configured, and the notification listener while signed in.
// Cancellation is a clean shutdown and returns nil.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.running = true
	a.mu.Unlock()

	if addr := a.cfg.Metrics.ListenAddr; addr != "" {
		a.tree.AddLocalService(services.NewMetricsService(addr))
		logging.Info().Str("addr", addr).Msg("Metrics endpoint enabled")
	}
	a.startNotifier()

	err := a.tree.Serve(ctx)
	a.reportUnstopped()

	a.mu.Lock()
	a.running = false
	a.notifier = nil
	a.mu.Unlock()

	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// reportUnstopped logs services that outlived the shutdown timeout.
func (a *App) reportUnstopped() {
	unstopped, err := a.tree.UnstoppedServiceReport()
	if err != nil {
		logging.Debug().Err(err).Msg("No unstopped service report")
		return
	}
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
	}
}

// startNotifier adds the notification listener and its dispatcher to the
// network layer when the tree is running and an account is signed in.
func (a *App) startNotifier() {
	if !a.cfg.Notifications.Enabled {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running || a.raw == nil || a.notifier != nil {
		return
	}

	notifier, err := client.NewNotifier(a.raw)
	if err != nil {
		logging.Warn().Err(err).Msg("Notification listener not started")
		return
	}
	dispatch := services.NewDispatchService(notifier, a.handleNotification)
	a.notifier = []suture.ServiceToken{
		a.tree.AddNetworkService(notifier),
		a.tree.AddNetworkService(dispatch),
	}
}

// stopNotifier removes the listener and waits for it to exit. The lock is
// released first because a dispatched remote stop reports through the App.
func (a *App) stopNotifier() {
	a.mu.Lock()
	tokens := a.notifier
	a.notifier = nil
	a.mu.Unlock()

	for _, token := range tokens {
		if err := a.tree.RemoveNetworkService(token); err != nil {
			logging.Warn().Err(err).Msg("Failed to stop notification service")
		}
	}
}

// handleNotification applies remote commands to the active session and
// releases the player once a remote stop ended it.
func (a *App) handleNotification(ctx context.Context, n client.Notification) {
	a.sessions.HandleNotification(ctx, n)
	if n.Type == client.NotifyPlaystate && a.sessions.Active() == nil {
		a.releaseHandle()
	}
}
