// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package main

import (
	"sync"
	"time"

	"github.com/tomtom215/finplay/internal/playback"
)

// clockPlayer is a headless player whose position follows the wall clock.
// It stands in for a video engine so sessions can be exercised end to end.
type clockPlayer struct {
	mu     sync.Mutex
	now    func() time.Time
	offset time.Duration
	since  time.Time
	paused bool
	muted  bool
}

var (
	_ playback.Player = (*clockPlayer)(nil)
	_ playback.Seeker = (*clockPlayer)(nil)
	_ playback.Pauser = (*clockPlayer)(nil)
)

func newClockPlayer() *clockPlayer {
	p := &clockPlayer{now: time.Now}
	p.since = p.now()
	return p
}

func (p *clockPlayer) positionLocked() time.Duration {
	if p.paused {
		return p.offset
	}
	return p.offset + p.now().Sub(p.since)
}

func (p *clockPlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *clockPlayer) Seek(position time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset = position
	p.since = p.now()
	return nil
}

// SetPaused freezes or resumes the clock.
func (p *clockPlayer) SetPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if paused == p.paused {
		return
	}
	p.offset = p.positionLocked()
	p.since = p.now()
	p.paused = paused
}

func (p *clockPlayer) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *clockPlayer) SetMute(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
}

func (p *clockPlayer) IsMuted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}
