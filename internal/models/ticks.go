// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package models

import "time"

// TicksPerSecond is the number of 100 ns server ticks in one second.
const TicksPerSecond int64 = 10_000_000

// SecondsToTicks converts whole seconds to ticks.
func SecondsToTicks(seconds int64) int64 {
	return seconds * TicksPerSecond
}

// TicksToSeconds converts ticks to whole seconds, truncating toward zero.
func TicksToSeconds(ticks int64) int64 {
	return ticks / TicksPerSecond
}

// DurationToTicks converts a duration to ticks. Sub-tick precision is dropped.
func DurationToTicks(d time.Duration) int64 {
	return int64(d / 100)
}

// TicksToDuration converts ticks to a duration.
func TicksToDuration(ticks int64) time.Duration {
	return time.Duration(ticks) * 100
}
