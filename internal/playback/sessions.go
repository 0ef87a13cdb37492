// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package playback

import (
	"context"
	"sync"

	"github.com/tomtom215/finplay/internal/client"
	"github.com/tomtom215/finplay/internal/logging"
	"github.com/tomtom215/finplay/internal/models"
)

// Sessions keeps at most one active Reporter.
type Sessions struct {
	sink ReportSink
	opts ReporterOptions

	mu     sync.Mutex
	active *Reporter
}

// NewSessions creates a session manager that reports to sink.
func NewSessions(sink ReportSink, opts ReporterOptions) *Sessions {
	return &Sessions{sink: sink, opts: opts}
}

// Begin stops the active session, waiting for its stopped report, and then
// starts reporting item. The reporter's loop lives as long as ctx.
func (s *Sessions) Begin(ctx context.Context, item models.MediaItem, handle Handle) (*Reporter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		s.active.Stop(ctx)
		s.active = nil
	}

	r := NewReporter(s.sink, item, handle, s.opts)
	if err := r.Start(ctx); err != nil {
		return nil, err
	}
	s.active = r
	return r, nil
}

// End stops the active session, if any.
func (s *Sessions) End(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return
	}
	s.active.Stop(ctx)
	s.active = nil
}

// Active returns the active reporter, or nil.
func (s *Sessions) Active() *Reporter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// HandleNotification applies remote playstate commands to the active session.
func (s *Sessions) HandleNotification(ctx context.Context, n client.Notification) {
	if n.Type != client.NotifyPlaystate || n.Playstate == nil {
		return
	}

	log := logging.Ctx(ctx)
	switch n.Playstate.Command {
	case client.CommandStop:
		log.Info().Msg("Remote stop received")
		s.End(ctx)
	case client.CommandSeek:
		r := s.Active()
		if r == nil {
			return
		}
		if err := SeekTo(r.handle, models.TicksToDuration(n.Playstate.SeekPositionTicks)); err != nil {
			log.Warn().Err(err).Msg("Remote seek failed")
		}
	default:
		log.Debug().Str("command", n.Playstate.Command).Msg("Ignoring remote playstate command")
	}
}
