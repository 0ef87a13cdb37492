// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tomtom215/finplay/internal/models"
)

// The endpoints in this file are served by server plugins and answer 404
// for items they know nothing about. A 404 returns (nil, nil).

// IntroTimestamps retrieves the detected intro of an episode.
func (c *Client) IntroTimestamps(ctx context.Context, episodeID string) (*models.IntroTimestamps, error) {
	var intro models.IntroTimestamps
	found, err := c.getOptionalJSON(ctx, "Episode/{id}/IntroTimestamps",
		"Episode/"+url.PathEscape(episodeID)+"/IntroTimestamps", &intro)
	if err != nil {
		return nil, fmt.Errorf("jellyfin intro timestamps for %s: %w", episodeID, err)
	}
	if !found {
		return nil, nil
	}
	return &intro, nil
}

// TrickplayManifest retrieves the thumbnail widths available for an item.
func (c *Client) TrickplayManifest(ctx context.Context, itemID string) (*models.TrickplayManifest, error) {
	var manifest models.TrickplayManifest
	found, err := c.getOptionalJSON(ctx, "Trickplay/{id}/GetManifest",
		"Trickplay/"+url.PathEscape(itemID)+"/GetManifest", &manifest)
	if err != nil {
		return nil, fmt.Errorf("jellyfin trickplay manifest for %s: %w", itemID, err)
	}
	if !found {
		return nil, nil
	}
	return &manifest, nil
}

// TrickplayBIF downloads the raw BIF file for one thumbnail width.
func (c *Client) TrickplayBIF(ctx context.Context, itemID string, width int) ([]byte, error) {
	data, err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "Trickplay/{id}/{width}/GetBIF",
		path:   "Trickplay/" + url.PathEscape(itemID) + "/" + strconv.Itoa(width) + "/GetBIF",
	})
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jellyfin trickplay bif for %s: %w", itemID, err)
	}
	return data, nil
}
