// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

/*
Package services provides suture.Service wrappers for Finplay components.

Each wrapper turns a component's lifecycle into the context-aware Serve
pattern and names itself through fmt.Stringer for the supervisor's event log:

  - HTTPServerService runs an *http.Server, such as the /metrics endpoint
    built by NewMetricsService.
  - DispatchService feeds server notifications to handlers, such as
    playback.Sessions.HandleNotification.

The notification socket itself (client.Notifier) already implements
suture.Service and needs no wrapper.
*/
package services
