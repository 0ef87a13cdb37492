// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/finplay/internal/bif"
	"github.com/tomtom215/finplay/internal/client"
	"github.com/tomtom215/finplay/internal/logging"
	"github.com/tomtom215/finplay/internal/models"
	"github.com/tomtom215/finplay/internal/playback"
)

var (
	// ErrNoPlayback is returned by controls when nothing is playing.
	ErrNoPlayback = errors.New("nothing is playing")
	// ErrNoTrickplay is returned when the server has no thumbnails for an item.
	ErrNoTrickplay = errors.New("no trickplay thumbnails for this item")
)

// Playback describes a started session.
type Playback struct {
	Item      models.MediaItem
	StreamURL string
	Reporter  *playback.Reporter
	Handle    playback.Handle
}

// Play resolves item to something playable, registers player and starts
// reporting. Any previous session is stopped first. The caller loads
// StreamURL into the player.
func (a *App) Play(ctx context.Context, item models.MediaItem, player playback.Player) (*Playback, error) {
	raw, err := a.Client()
	if err != nil {
		return nil, err
	}

	resolved, err := a.resolver.Resolve(ctx, item)
	if err != nil {
		return nil, err
	}

	a.StopPlayback(ctx)

	handle := a.registry.Register(player)
	reporter, err := a.sessions.Begin(a.ctx, resolved, handle)
	if err != nil {
		a.registry.Unregister(handle)
		return nil, fmt.Errorf("begin playback of %s: %w", resolved.ID, err)
	}

	a.mu.Lock()
	a.handle = &handle
	a.mu.Unlock()

	logging.Ctx(ctx).Info().
		Str("item_id", resolved.ID).
		Str("name", resolved.Name).
		Str("play_session_id", reporter.PlaySessionID()).
		Msg("Playback started")

	streamURL := raw.StreamURL(resolved.ID, client.StreamOptions{
		PlaySessionID: reporter.PlaySessionID(),
		StartTicks:    resolved.ResumeTicks(),
	})
	return &Playback{
		Item:      resolved,
		StreamURL: streamURL,
		Reporter:  reporter,
		Handle:    handle,
	}, nil
}

// StopPlayback ends the active session and releases its player.
func (a *App) StopPlayback(ctx context.Context) {
	a.sessions.End(ctx)
	a.releaseHandle()
}

func (a *App) releaseHandle() {
	a.mu.Lock()
	handle := a.handle
	a.handle = nil
	a.mu.Unlock()
	if handle != nil {
		a.registry.Unregister(*handle)
	}
}

func (a *App) activeHandle() (playback.Handle, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.handle == nil {
		return playback.Handle{}, ErrNoPlayback
	}
	return *a.handle, nil
}

// SkipForward moves the active player ahead by the configured amount.
func (a *App) SkipForward() error {
	h, err := a.activeHandle()
	if err != nil {
		return err
	}
	return playback.SkipForward(h, a.cfg.Playback.SkipForward)
}

// SkipBackward moves the active player back by the configured amount.
func (a *App) SkipBackward() error {
	h, err := a.activeHandle()
	if err != nil {
		return err
	}
	return playback.SkipBackward(h, a.cfg.Playback.SkipBackward)
}

// SkipIntro looks up the intro of the playing item and seeks past it.
func (a *App) SkipIntro(ctx context.Context) error {
	h, err := a.activeHandle()
	if err != nil {
		return err
	}
	r := a.sessions.Active()
	if r == nil {
		return ErrNoPlayback
	}
	api, err := a.API()
	if err != nil {
		return err
	}
	intro, err := api.IntroTimestamps(ctx, r.Item().ID)
	if err != nil {
		return err
	}
	return playback.SkipIntro(h, intro)
}

// TrickplayFrames downloads and decodes the seek thumbnails of an item at
// the width closest to width.
func (a *App) TrickplayFrames(ctx context.Context, itemID string, width int) ([]bif.Frame, error) {
	api, err := a.API()
	if err != nil {
		return nil, err
	}

	manifest, err := api.TrickplayManifest(ctx, itemID)
	if err != nil {
		return nil, err
	}
	best := manifest.ClosestWidth(width)
	if best == 0 {
		return nil, ErrNoTrickplay
	}

	data, err := api.TrickplayBIF(ctx, itemID, best)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNoTrickplay
	}
	frames, err := bif.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("trickplay for %s at width %d: %w", itemID, best, err)
	}
	return frames, nil
}
