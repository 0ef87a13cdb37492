// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package models

// PlaybackEvent names the three lifecycle reports of a playback session.
type PlaybackEvent string

const (
	PlaybackStarted  PlaybackEvent = "started"
	PlaybackProgress PlaybackEvent = "progress"
	PlaybackStopped  PlaybackEvent = "stopped"
)

// EventNameTimeUpdate is the EventName carried by periodic progress reports.
const EventNameTimeUpdate = "timeupdate"

// PlaybackProgressReport is the body posted to Sessions/Playing[/Progress|/Stopped].
// It is sent once and discarded.
type PlaybackProgressReport struct {
	Event         PlaybackEvent `json:"-"`
	ItemID        string        `json:"ItemId"`
	PlaySessionID string        `json:"PlaySessionId,omitempty"`
	PositionTicks int64         `json:"PositionTicks"`
	EventName     string        `json:"EventName,omitempty"`
	IsPaused      bool          `json:"IsPaused"`
	IsMuted       bool          `json:"IsMuted"`
	CanSeek       bool          `json:"CanSeek"`
}

// IntroTimestamps marks the intro of an episode, in seconds.
type IntroTimestamps struct {
	EpisodeID        string  `json:"EpisodeId,omitempty"`
	Valid            bool    `json:"Valid"`
	IntroStart       float64 `json:"IntroStart"`
	IntroEnd         float64 `json:"IntroEnd"`
	ShowSkipPromptAt float64 `json:"ShowSkipPromptAt"`
	HideSkipPromptAt float64 `json:"HideSkipPromptAt"`
}

// PromptVisible reports whether a "skip intro" prompt should be shown at
// the given position (seconds).
func (i *IntroTimestamps) PromptVisible(positionSeconds float64) bool {
	if i == nil || !i.Valid {
		return false
	}
	return positionSeconds >= i.ShowSkipPromptAt && positionSeconds < i.HideSkipPromptAt
}

// TrickplayManifest lists the thumbnail widths the server has BIF files for.
type TrickplayManifest struct {
	WidthResolutions []int `json:"WidthResolutions"`
}

// ClosestWidth returns the available width nearest to want, or 0 if none.
func (m *TrickplayManifest) ClosestWidth(want int) int {
	if m == nil {
		return 0
	}
	best := 0
	for _, w := range m.WidthResolutions {
		if best == 0 || abs(w-want) < abs(best-want) {
			best = w
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
