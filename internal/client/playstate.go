// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/finplay/internal/models"
)

// ReportPlayback posts a playback lifecycle report. The endpoint is chosen
// by report.Event:
//   - started:  Sessions/Playing
//   - progress: Sessions/Playing/Progress
//   - stopped:  Sessions/Playing/Stopped
func (c *Client) ReportPlayback(ctx context.Context, report *models.PlaybackProgressReport) error {
	if report == nil {
		return errors.New("nil playback report")
	}
	if report.ItemID == "" {
		return fmt.Errorf("playback report: ItemId: %w", ErrMissingField)
	}

	var path string
	switch report.Event {
	case models.PlaybackStarted:
		path = "Sessions/Playing"
	case models.PlaybackProgress:
		path = "Sessions/Playing/Progress"
	case models.PlaybackStopped:
		path = "Sessions/Playing/Stopped"
	default:
		return fmt.Errorf("unknown playback event %q", report.Event)
	}

	if err := c.post(ctx, path, path, report); err != nil {
		return fmt.Errorf("jellyfin report %s for %s: %w", report.Event, report.ItemID, err)
	}
	return nil
}
