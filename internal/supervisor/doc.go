// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

/*
Package supervisor runs Finplay's background services under suture v4.

	Root ("finplay")
	├── network-layer
	│   ├── client.Notifier               server notification socket
	│   └── services.DispatchService      notifications to playback sessions
	└── local-layer
	    └── services.HTTPServerService    /metrics (if metrics.listen_addr)

Crashed services restart with suture's backoff. Supervisor events are
logged through sutureslog into the zerolog logger:

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddNetworkService(notifier)
	errCh := tree.ServeBackground(ctx)

Playback reporters are deliberately not supervised services: a reporter
lives exactly as long as one playback session and is stopped by the
session manager, not restarted.
*/
package supervisor
