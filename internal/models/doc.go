// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

/*
Package models defines the data structures shared by the Finplay client core.

Field names and JSON tags follow the Jellyfin REST API (PascalCase keys), so
the same structs decode server responses and encode report bodies without an
intermediate DTO layer.

Model Categories:

 1. Session: Account (server URL, device id, user id, access token)
 2. Library: MediaItem, UserItemData, Page
 3. Playback: PlaybackProgressReport, IntroTimestamps, TrickplayManifest
 4. Images: ImageKind, SizeVariant
 5. Server: PublicSystemInfo

All values are immutable snapshots: nothing in this package is mutated after
decoding, and updates are always round-tripped through the server.

Time positions are expressed in ticks (100 ns). Use SecondsToTicks,
TicksToSeconds, DurationToTicks and TicksToDuration to convert.
*/
package models
