// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package services

import (
	"context"

	"github.com/tomtom215/finplay/internal/client"
	"github.com/tomtom215/finplay/internal/logging"
)

// NotificationSource is satisfied by *client.Notifier.
type NotificationSource interface {
	Notifications() <-chan client.Notification
}

// NotificationHandler consumes one server notification.
type NotificationHandler func(ctx context.Context, n client.Notification)

// DispatchService delivers notifications from a source to handlers in
// arrival order. Handlers run on the service goroutine, one at a time.
type DispatchService struct {
	source   NotificationSource
	handlers []NotificationHandler
}

// NewDispatchService creates a dispatcher for source.
func NewDispatchService(source NotificationSource, handlers ...NotificationHandler) *DispatchService {
	return &DispatchService{source: source, handlers: handlers}
}

// Serve implements suture.Service.
func (d *DispatchService) Serve(ctx context.Context) error {
	notes := d.source.Notifications()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-notes:
			hctx := logging.ContextWithNewCorrelationID(ctx)
			logging.Ctx(hctx).Debug().Str("type", string(n.Type)).Msg("Dispatching server notification")
			for _, h := range d.handlers {
				h(hctx, n)
			}
		}
	}
}

func (d *DispatchService) String() string {
	return "notification-dispatch"
}
