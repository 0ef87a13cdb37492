// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package app

import (
	"context"

	"github.com/tomtom215/finplay/internal/models"
	"github.com/tomtom215/finplay/internal/playback"
)

// apiProxy forwards to whichever client is current, so the resolver and
// session manager survive switching accounts.
type apiProxy struct {
	app *App
}

var (
	_ playback.ReportSink    = (*apiProxy)(nil)
	_ playback.EpisodeSource = (*apiProxy)(nil)
)

func (p *apiProxy) ReportPlayback(ctx context.Context, report *models.PlaybackProgressReport) error {
	api, err := p.app.API()
	if err != nil {
		return err
	}
	return api.ReportPlayback(ctx, report)
}

func (p *apiProxy) Resume(ctx context.Context, parentID string, limit int) (*models.Page[models.MediaItem], error) {
	api, err := p.app.API()
	if err != nil {
		return nil, err
	}
	return api.Resume(ctx, parentID, limit)
}

func (p *apiProxy) NextUp(ctx context.Context, seriesID string, limit int) (*models.Page[models.MediaItem], error) {
	api, err := p.app.API()
	if err != nil {
		return nil, err
	}
	return api.NextUp(ctx, seriesID, limit)
}

func (p *apiProxy) Episodes(ctx context.Context, seriesID, seasonID string) (*models.Page[models.MediaItem], error) {
	api, err := p.app.API()
	if err != nil {
		return nil, err
	}
	return api.Episodes(ctx, seriesID, seasonID)
}
