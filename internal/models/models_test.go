// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestTicksRoundTripSeconds(t *testing.T) {
	t.Parallel()

	for _, s := range []int64{0, 1, 59, 3600, 86_400, 1 << 32} {
		if got := TicksToSeconds(SecondsToTicks(s)); got != s {
			t.Errorf("TicksToSeconds(SecondsToTicks(%d)) = %d", s, got)
		}
	}
}

func TestTicksToSecondsTruncates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ticks int64
		want  int64
	}{
		{0, 0},
		{9_999_999, 0},
		{10_000_000, 1},
		{15_000_000, 1},
		{SecondsToTicks(90) + 1, 90},
	}
	for _, tt := range tests {
		if got := TicksToSeconds(tt.ticks); got != tt.want {
			t.Errorf("TicksToSeconds(%d) = %d, want %d", tt.ticks, got, tt.want)
		}
	}

	// The reverse direction is lossy.
	if SecondsToTicks(TicksToSeconds(15_000_000)) == 15_000_000 {
		t.Error("expected sub-second ticks to be truncated")
	}
}

func TestDurationTicks(t *testing.T) {
	t.Parallel()

	if got := DurationToTicks(1500 * time.Millisecond); got != 15_000_000 {
		t.Errorf("DurationToTicks(1.5s) = %d", got)
	}
	if got := TicksToDuration(25_000_000); got != 2500*time.Millisecond {
		t.Errorf("TicksToDuration(25e6) = %v", got)
	}
}

func TestMediaItemDecode(t *testing.T) {
	t.Parallel()

	raw := `{
		"Id": "ep-1",
		"Name": "Pilot",
		"Type": "Episode",
		"SeriesId": "series-1",
		"IndexNumber": 1,
		"ParentIndexNumber": 2,
		"UserData": {"Played": false, "PlaybackPositionTicks": 420000000, "PlayedPercentage": 12.5}
	}`

	var item MediaItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.Type != KindEpisode {
		t.Errorf("Type = %q", item.Type)
	}
	if item.EpisodeIndex() != 1 || item.SeasonIndex() != 2 {
		t.Errorf("indexes = %d/%d", item.EpisodeIndex(), item.SeasonIndex())
	}
	if item.ResumeTicks() != 420000000 {
		t.Errorf("ResumeTicks = %d", item.ResumeTicks())
	}
}

func TestItemKindIsContainer(t *testing.T) {
	t.Parallel()

	if !KindSeries.IsContainer() || !KindSeason.IsContainer() {
		t.Error("series and season are containers")
	}
	if KindMovie.IsContainer() || KindEpisode.IsContainer() {
		t.Error("movie and episode are playable")
	}
}

func TestIntroPromptVisible(t *testing.T) {
	t.Parallel()

	intro := &IntroTimestamps{Valid: true, IntroStart: 10, IntroEnd: 70, ShowSkipPromptAt: 8, HideSkipPromptAt: 18}
	if intro.PromptVisible(5) {
		t.Error("prompt should be hidden before ShowSkipPromptAt")
	}
	if !intro.PromptVisible(8) || !intro.PromptVisible(17.9) {
		t.Error("prompt should be visible inside window")
	}
	if intro.PromptVisible(18) {
		t.Error("prompt should be hidden at HideSkipPromptAt")
	}

	var absent *IntroTimestamps
	if absent.PromptVisible(10) {
		t.Error("nil intro never shows a prompt")
	}
}

func TestTrickplayClosestWidth(t *testing.T) {
	t.Parallel()

	m := &TrickplayManifest{WidthResolutions: []int{160, 320, 640}}
	if got := m.ClosestWidth(300); got != 320 {
		t.Errorf("ClosestWidth(300) = %d", got)
	}
	if got := (&TrickplayManifest{}).ClosestWidth(300); got != 0 {
		t.Errorf("empty manifest ClosestWidth = %d", got)
	}
}

func TestImageKindValid(t *testing.T) {
	t.Parallel()

	for _, k := range []ImageKind{ImagePrimary, ImageBackdrop, ImageThumb, ImageLogo, ImageBanner} {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	for _, k := range []ImageKind{"", "primary", "Poster", "x/../../../escaped"} {
		if k.Valid() {
			t.Errorf("%q should be invalid", k)
		}
	}
}
