// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

/*
Package playback owns everything between "the user picked an item" and
"the server knows what was watched".

# Resolution

Selecting a series does not play the series: the Resolver turns it into an
episode by trying, in order, the in-progress episode, the next unwatched
episode and the first episode. Each lookup fails independently.

# Reporting

A Reporter sends exactly one started report, progress reports on a fixed
interval, and exactly one stopped report. Positions never go backwards.
Report failures are logged and never end a session. Sessions keeps at most
one Reporter alive and finishes the old one before starting the next.

# Players

The video engine is reached through a Registry of Handles so a session
outliving its player stops itself instead of touching a dead engine.
*/
package playback
