// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package playback

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/finplay/internal/models"
)

const (
	DefaultSkipForward  = 30 * time.Second
	DefaultSkipBackward = 10 * time.Second
)

var (
	ErrPlayerGone   = errors.New("player is no longer available")
	ErrNotSeekable  = errors.New("player cannot seek")
	ErrNoIntroFound = errors.New("no intro for this item")
)

func seeker(h Handle) (Player, Seeker, error) {
	p, ok := h.Player()
	if !ok {
		return nil, nil, ErrPlayerGone
	}
	s, ok := p.(Seeker)
	if !ok {
		return nil, nil, ErrNotSeekable
	}
	return p, s, nil
}

// SeekTo moves the player to position, clamped at zero.
func SeekTo(h Handle, position time.Duration) error {
	_, s, err := seeker(h)
	if err != nil {
		return err
	}
	if position < 0 {
		position = 0
	}
	if err := s.Seek(position); err != nil {
		return fmt.Errorf("seek to %v: %w", position, err)
	}
	return nil
}

// SkipForward moves the player ahead by d.
func SkipForward(h Handle, d time.Duration) error {
	p, _, err := seeker(h)
	if err != nil {
		return err
	}
	return SeekTo(h, p.Position()+d)
}

// SkipBackward moves the player back by d, stopping at the start.
func SkipBackward(h Handle, d time.Duration) error {
	p, _, err := seeker(h)
	if err != nil {
		return err
	}
	return SeekTo(h, p.Position()-d)
}

// SkipIntro seeks to the end of the intro.
func SkipIntro(h Handle, intro *models.IntroTimestamps) error {
	if intro == nil || !intro.Valid {
		return ErrNoIntroFound
	}
	return SeekTo(h, time.Duration(intro.IntroEnd*float64(time.Second)))
}
