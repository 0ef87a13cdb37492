// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package playback

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/finplay/internal/models"
)

func newTestReporter(sink ReportSink, player Player) (*Reporter, *manualTicker, *Registry, Handle) {
	reg := NewRegistry()
	h := reg.Register(player)
	tk := newManualTicker()
	r := NewReporter(sink, episode1, h, ReporterOptions{Interval: time.Second, NewTicker: tk.factory()})
	return r, tk, reg, h
}

func TestReporterLifecycle(t *testing.T) {
	sink := &fakeSink{}
	player := &fakePlayer{position: 5 * time.Second}
	r, tk, _, _ := newTestReporter(sink, player)

	if r.State() != StateIdle {
		t.Fatalf("initial state = %v", r.State())
	}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Start(context.Background()); err != ErrAlreadyStarted {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}

	tk.tick()
	player.setPosition(15 * time.Second)
	tk.tick()
	player.setPosition(20 * time.Second)
	r.Stop(context.Background())

	reports := sink.snapshot()
	wantEvents := []models.PlaybackEvent{models.PlaybackStarted, models.PlaybackProgress, models.PlaybackProgress, models.PlaybackStopped}
	if len(reports) != len(wantEvents) {
		t.Fatalf("got %d reports (%v), want %d", len(reports), sink.events(), len(wantEvents))
	}
	for i, want := range wantEvents {
		if reports[i].Event != want {
			t.Errorf("report %d = %s, want %s", i, reports[i].Event, want)
		}
		if reports[i].PlaySessionID != r.PlaySessionID() {
			t.Errorf("report %d play session = %q", i, reports[i].PlaySessionID)
		}
	}

	for _, rep := range reports[1:3] {
		if rep.EventName != models.EventNameTimeUpdate {
			t.Errorf("progress EventName = %q, want timeupdate", rep.EventName)
		}
	}
	if reports[0].EventName != "" || reports[3].EventName != "" {
		t.Error("only progress reports carry an EventName")
	}
	if got := reports[3].PositionTicks; got != models.SecondsToTicks(20) {
		t.Errorf("stopped position = %d, want %d", got, models.SecondsToTicks(20))
	}
	if !reports[1].CanSeek {
		t.Error("seekable player should report CanSeek")
	}
	if r.State() != StateStopped {
		t.Errorf("final state = %v", r.State())
	}
	select {
	case <-tk.stopped:
	default:
		t.Error("ticker should be stopped")
	}
}

func TestReporterPositionsNeverDecrease(t *testing.T) {
	sink := &fakeSink{}
	player := &fakePlayer{position: 100 * time.Second}
	r, tk, _, _ := newTestReporter(sink, player)

	_ = r.Start(context.Background())
	tk.tick()
	player.setPosition(40 * time.Second)
	tk.tick()
	r.Stop(context.Background())

	var last int64
	for i, rep := range sink.snapshot() {
		if rep.PositionTicks < last {
			t.Errorf("report %d went backwards: %d < %d", i, rep.PositionTicks, last)
		}
		last = rep.PositionTicks
	}
	if last != models.SecondsToTicks(100) {
		t.Errorf("last position = %d, want clamp at 100s", last)
	}
}

func TestReporterContinuesAfterFailures(t *testing.T) {
	sink := &fakeSink{failOn: map[models.PlaybackEvent]bool{
		models.PlaybackStarted:  true,
		models.PlaybackProgress: true,
	}}
	r, tk, _, _ := newTestReporter(sink, &fakePlayer{})

	_ = r.Start(context.Background())
	tk.tick()
	tk.tick()
	tk.tick()
	r.Stop(context.Background())

	reports := sink.snapshot()
	if len(reports) != 5 {
		t.Fatalf("got %d reports, want 5: %v", len(reports), sink.events())
	}
	if reports[4].Event != models.PlaybackStopped {
		t.Errorf("last report = %s, want stopped", reports[4].Event)
	}
}

func TestReporterStopIsIdempotent(t *testing.T) {
	sink := &fakeSink{}
	r, tk, _, _ := newTestReporter(sink, &fakePlayer{})

	_ = r.Start(context.Background())
	tk.tick()
	r.Stop(context.Background())
	r.Stop(context.Background())

	stopped := 0
	for _, rep := range sink.snapshot() {
		if rep.Event == models.PlaybackStopped {
			stopped++
		}
	}
	if stopped != 1 {
		t.Errorf("stopped sent %d times, want 1", stopped)
	}
}

func TestReporterStopBeforeStart(t *testing.T) {
	sink := &fakeSink{}
	r, _, _, _ := newTestReporter(sink, &fakePlayer{})

	r.Stop(context.Background())

	if n := len(sink.snapshot()); n != 0 {
		t.Errorf("idle reporter sent %d reports", n)
	}
	select {
	case <-r.Done():
	default:
		t.Error("Done should be closed after Stop")
	}
	if err := r.Start(context.Background()); err != ErrAlreadyStarted {
		t.Errorf("Start after Stop = %v, want ErrAlreadyStarted", err)
	}
}

func TestReporterStopsWhenPlayerGone(t *testing.T) {
	sink := &fakeSink{}
	r, tk, reg, h := newTestReporter(sink, &fakePlayer{position: 30 * time.Second})

	_ = r.Start(context.Background())
	tk.tick()
	reg.Unregister(h)
	tk.tick()

	select {
	case <-r.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("reporter did not stop itself")
	}
	r.Stop(context.Background())

	got := sink.events()
	want := []string{"ep-1:started", "ep-1:progress", "ep-1:stopped"}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
	if last := sink.snapshot()[2].PositionTicks; last != models.SecondsToTicks(30) {
		t.Errorf("stopped position = %d, want last known 30s", last)
	}
}

func TestReporterStartsFromResumePosition(t *testing.T) {
	sink := &fakeSink{}
	item := episode1
	item.UserData = &models.UserItemData{PlaybackPositionTicks: models.SecondsToTicks(600)}

	reg := NewRegistry()
	tk := newManualTicker()
	r := NewReporter(sink, item, reg.Register(&fakePlayer{}), ReporterOptions{NewTicker: tk.factory()})

	_ = r.Start(context.Background())
	r.Stop(context.Background())

	for _, rep := range sink.snapshot() {
		if rep.PositionTicks != models.SecondsToTicks(600) {
			t.Errorf("%s position = %d, want resume position", rep.Event, rep.PositionTicks)
		}
	}
}
