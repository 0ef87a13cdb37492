// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/finplay/internal/models"
)

// fakeSource answers resolver lookups from canned pages and errors.
type fakeSource struct {
	mu sync.Mutex

	resume, nextUp, episodes          []models.MediaItem
	resumeErr, nextUpErr, episodesErr error

	resumeCalls, nextUpCalls, episodesCalls int
	lastLimit                               int
}

func page(items ...models.MediaItem) *models.Page[models.MediaItem] {
	return &models.Page[models.MediaItem]{Items: items, TotalRecordCount: len(items)}
}

func (f *fakeSource) Resume(_ context.Context, _ string, limit int) (*models.Page[models.MediaItem], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumeCalls++
	f.lastLimit = limit
	if f.resumeErr != nil {
		return nil, f.resumeErr
	}
	return page(f.resume...), nil
}

func (f *fakeSource) NextUp(_ context.Context, _ string, limit int) (*models.Page[models.MediaItem], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextUpCalls++
	f.lastLimit = limit
	if f.nextUpErr != nil {
		return nil, f.nextUpErr
	}
	return page(f.nextUp...), nil
}

func (f *fakeSource) Episodes(_ context.Context, _, _ string) (*models.Page[models.MediaItem], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.episodesCalls++
	if f.episodesErr != nil {
		return nil, f.episodesErr
	}
	return page(f.episodes...), nil
}

// fakeSink records every report in order.
type fakeSink struct {
	mu      sync.Mutex
	reports []models.PlaybackProgressReport
	failOn  map[models.PlaybackEvent]bool
}

func (s *fakeSink) ReportPlayback(_ context.Context, r *models.PlaybackProgressReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, *r)
	if s.failOn[r.Event] {
		return errors.New("server unavailable")
	}
	return nil
}

func (s *fakeSink) snapshot() []models.PlaybackProgressReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PlaybackProgressReport(nil), s.reports...)
}

func (s *fakeSink) events() []string {
	var out []string
	for _, r := range s.snapshot() {
		out = append(out, r.ItemID+":"+string(r.Event))
	}
	return out
}

// manualTicker fires only when the test sends on ch.
type manualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.once.Do(func() { close(t.stopped) }) }

func (t *manualTicker) factory() TickerFunc {
	return func(time.Duration) Ticker { return t }
}

// tick delivers one tick and returns once the loop has received it.
func (t *manualTicker) tick() {
	t.ch <- time.Now()
}

// fakePlayer is a scriptable Player with seek and pause support.
type fakePlayer struct {
	mu       sync.Mutex
	position time.Duration
	muted    bool
	paused   bool
	seeks    []time.Duration
}

func (p *fakePlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *fakePlayer) setPosition(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = d
}

func (p *fakePlayer) SetMute(m bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = m
}

func (p *fakePlayer) IsMuted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *fakePlayer) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *fakePlayer) Seek(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seeks = append(p.seeks, d)
	p.position = d
	return nil
}

// basicPlayer has no optional capabilities.
type basicPlayer struct{}

func (basicPlayer) Position() time.Duration { return 0 }
func (basicPlayer) SetMute(bool)            {}
func (basicPlayer) IsMuted() bool           { return false }
