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

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/finplay/internal/logging"
	"github.com/tomtom215/finplay/internal/metrics"
	"github.com/tomtom215/finplay/internal/models"
)

// DefaultReportInterval is the progress reporting period.
const DefaultReportInterval = 10 * time.Second

// ErrAlreadyStarted is returned by Start on a reporter that left Idle.
var ErrAlreadyStarted = errors.New("reporter already started")

// State is the lifecycle state of a Reporter.
type State int

const (
	StateIdle State = iota
	StateReporting
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReporting:
		return "reporting"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ReportSink receives playback reports. client.API satisfies it.
type ReportSink interface {
	ReportPlayback(ctx context.Context, report *models.PlaybackProgressReport) error
}

// Ticker is the periodic trigger of the reporting loop.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker for an interval.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the default TickerFunc.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// ReporterOptions configures a Reporter.
type ReporterOptions struct {
	Interval  time.Duration
	NewTicker TickerFunc
}

// Reporter reports one playback session to the server: started once,
// progress on every tick, stopped once at the end. Report failures are
// logged and never end the session.
type Reporter struct {
	sink          ReportSink
	item          models.MediaItem
	handle        Handle
	playSessionID string
	interval      time.Duration
	newTicker     TickerFunc
	log           zerolog.Logger

	mu        sync.Mutex
	state     State
	lastTicks int64
	stopCh    chan struct{}
	done      chan struct{}
	doneOnce  sync.Once
	wg        sync.WaitGroup
}

// NewReporter creates an idle reporter for item played by the player behind handle.
func NewReporter(sink ReportSink, item models.MediaItem, handle Handle, opts ReporterOptions) *Reporter {
	if opts.Interval <= 0 {
		opts.Interval = DefaultReportInterval
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewTimeTicker
	}
	playSessionID := uuid.NewString()
	return &Reporter{
		sink:          sink,
		item:          item,
		handle:        handle,
		playSessionID: playSessionID,
		interval:      opts.Interval,
		newTicker:     opts.NewTicker,
		log: logging.WithComponent("reporter").With().
			Str("item_id", item.ID).
			Str("play_session_id", playSessionID).
			Logger(),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Item returns the item being reported.
func (r *Reporter) Item() models.MediaItem {
	return r.item
}

// PlaySessionID identifies this session in every report.
func (r *Reporter) PlaySessionID() string {
	return r.playSessionID
}

// State returns the current lifecycle state.
func (r *Reporter) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Done is closed once the reporter has stopped and sent its final report.
func (r *Reporter) Done() <-chan struct{} {
	return r.done
}

// Start moves the reporter from Idle to Reporting. The started report and
// the progress loop run on a background goroutine bound to ctx, so Start
// never blocks on the network.
func (r *Reporter) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.state = StateReporting
	r.lastTicks = r.item.ResumeTicks()
	r.mu.Unlock()

	metrics.ActiveSessions.Inc()
	ticker := r.newTicker(r.interval)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer ticker.Stop()
		r.run(ctx, ticker)
	}()
	return nil
}

func (r *Reporter) run(ctx context.Context, ticker Ticker) {
	r.send(ctx, models.PlaybackStarted)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C():
			if !r.handle.Alive() {
				r.selfStop(ctx)
				return
			}
			r.send(ctx, models.PlaybackProgress)
		}
	}
}

// selfStop ends the session from inside the loop when the player is gone.
func (r *Reporter) selfStop(ctx context.Context) {
	r.mu.Lock()
	if r.state != StateReporting {
		r.mu.Unlock()
		return
	}
	r.state = StateStopped
	r.mu.Unlock()

	r.log.Info().Msg("Player is gone, stopping playback session")
	r.send(context.WithoutCancel(ctx), models.PlaybackStopped)
	r.finish()
}

// Stop moves the reporter to Stopped. It waits for the loop to exit and
// then sends the stopped report with the last known position, so stopped
// is always the final report. Calling Stop again is a no-op.
func (r *Reporter) Stop(ctx context.Context) {
	r.mu.Lock()
	switch r.state {
	case StateIdle:
		r.state = StateStopped
		r.mu.Unlock()
		r.doneOnce.Do(func() { close(r.done) })
		return
	case StateStopped:
		r.mu.Unlock()
		// A self-stop may still be sending its report.
		r.wg.Wait()
		return
	}
	r.state = StateStopped
	close(r.stopCh)
	r.mu.Unlock()

	r.wg.Wait()
	r.send(ctx, models.PlaybackStopped)
	r.finish()
}

func (r *Reporter) finish() {
	metrics.ActiveSessions.Dec()
	r.doneOnce.Do(func() { close(r.done) })
}

// position samples the player and clamps the result so reported positions
// never go backwards. A dead player leaves the last position unchanged.
func (r *Reporter) position() (ticks int64, paused, muted, canSeek bool) {
	player, alive := r.handle.Player()

	r.mu.Lock()
	defer r.mu.Unlock()
	if alive {
		if t := models.DurationToTicks(player.Position()); t > r.lastTicks {
			r.lastTicks = t
		}
		muted = player.IsMuted()
		if p, ok := player.(Pauser); ok {
			paused = p.IsPaused()
		}
		_, canSeek = player.(Seeker)
	}
	return r.lastTicks, paused, muted, canSeek
}

func (r *Reporter) send(ctx context.Context, event models.PlaybackEvent) {
	ticks, paused, muted, canSeek := r.position()
	report := &models.PlaybackProgressReport{
		Event:         event,
		ItemID:        r.item.ID,
		PlaySessionID: r.playSessionID,
		PositionTicks: ticks,
		IsPaused:      paused,
		IsMuted:       muted,
		CanSeek:       canSeek,
	}
	if event == models.PlaybackProgress {
		report.EventName = models.EventNameTimeUpdate
	}

	err := r.sink.ReportPlayback(ctx, report)
	metrics.RecordPlaybackReport(string(event), err)
	if err != nil {
		r.log.Warn().Err(err).Str("event", string(event)).Int64("position_ticks", ticks).Msg("Playback report failed")
		return
	}
	r.log.Debug().Str("event", string(event)).Int64("position_ticks", ticks).Msg("Playback reported")
}
