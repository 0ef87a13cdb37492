// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package playback

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/finplay/internal/logging"
	"github.com/tomtom215/finplay/internal/metrics"
	"github.com/tomtom215/finplay/internal/models"
)

// ErrUnresolvable is returned when a series has nothing to play.
var ErrUnresolvable = errors.New("nothing to play")

// EpisodeSource is the part of the API client the resolver uses.
type EpisodeSource interface {
	Resume(ctx context.Context, parentID string, limit int) (*models.Page[models.MediaItem], error)
	NextUp(ctx context.Context, seriesID string, limit int) (*models.Page[models.MediaItem], error)
	Episodes(ctx context.Context, seriesID, seasonID string) (*models.Page[models.MediaItem], error)
}

// Resolver picks the concrete item to play when the user selects a series.
type Resolver struct {
	source EpisodeSource
}

// NewResolver creates a resolver backed by source.
func NewResolver(source EpisodeSource) *Resolver {
	return &Resolver{source: source}
}

type resolveStep struct {
	name   string
	lookup func(ctx context.Context, seriesID string) (*models.Page[models.MediaItem], error)
}

func (r *Resolver) steps() []resolveStep {
	return []resolveStep{
		{"continue_watching", func(ctx context.Context, id string) (*models.Page[models.MediaItem], error) {
			return r.source.Resume(ctx, id, 1)
		}},
		{"next_up", func(ctx context.Context, id string) (*models.Page[models.MediaItem], error) {
			return r.source.NextUp(ctx, id, 1)
		}},
		{"first_episode", func(ctx context.Context, id string) (*models.Page[models.MediaItem], error) {
			return r.source.Episodes(ctx, id, "")
		}},
	}
}

// Resolve returns the item to play for item.
//
// Playable items are returned unchanged. Containers other than a series
// (seasons, box sets, folders) are ErrUnresolvable. For a series the
// lookups run in order: continue watching, next up, then the first
// episode. Each lookup is independent; a failed one is logged and the
// next one runs. When every lookup failed the returned error matches both
// ErrUnresolvable and the last lookup error.
func (r *Resolver) Resolve(ctx context.Context, item models.MediaItem) (models.MediaItem, error) {
	if item.Type != models.KindSeries {
		if item.Type.IsContainer() {
			return models.MediaItem{}, fmt.Errorf("%s %s: %w", item.Type, item.ID, ErrUnresolvable)
		}
		return item, nil
	}

	log := logging.Ctx(ctx).With().Str("series_id", item.ID).Str("series", item.Name).Logger()

	steps := r.steps()
	var lastErr error
	failures := 0
	for _, step := range steps {
		page, err := step.lookup(ctx, item.ID)
		if err != nil {
			failures++
			lastErr = err
			metrics.RecordResolverStep(step.name, "error")
			log.Warn().Err(err).Str("step", step.name).Msg("Resolver lookup failed, trying next")
			continue
		}
		if page == nil || len(page.Items) == 0 {
			metrics.RecordResolverStep(step.name, "empty")
			continue
		}

		metrics.RecordResolverStep(step.name, "hit")
		found := page.Items[0]
		log.Debug().Str("step", step.name).Str("item_id", found.ID).Msg("Resolved series")
		return found, nil
	}

	if failures == len(steps) {
		return models.MediaItem{}, fmt.Errorf("series %s: %w: %w", item.ID, ErrUnresolvable, lastErr)
	}
	return models.MediaItem{}, fmt.Errorf("series %s: %w", item.ID, ErrUnresolvable)
}
