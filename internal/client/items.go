// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/finplay/internal/models"
)

// defaultFields are the extra item fields the browsing views need.
var defaultFields = []string{"Overview", "PrimaryImageAspectRatio"}

// Views retrieves the signed-in user's library views.
func (c *Client) Views(ctx context.Context) (*models.Page[models.MediaItem], error) {
	userID, err := c.userID()
	if err != nil {
		return nil, err
	}
	return c.itemPage(ctx, "Users/{id}/Views", "Users/"+url.PathEscape(userID)+"/Views", nil)
}

// Items retrieves one page of items matching q.
func (c *Client) Items(ctx context.Context, q models.ItemQuery) (*models.Page[models.MediaItem], error) {
	userID, err := c.userID()
	if err != nil {
		return nil, err
	}

	fields := q.Fields
	if len(fields) == 0 {
		fields = defaultFields
	}
	kinds := make([]string, len(q.IncludeItemTypes))
	for i, k := range q.IncludeItemTypes {
		kinds[i] = string(k)
	}

	params := (&query{}).
		set("ParentId", q.ParentID).
		setInt("StartIndex", q.StartIndex).
		setInt("Limit", q.Limit).
		setList("SortBy", q.SortBy).
		set("SortOrder", q.SortOrder).
		setList("IncludeItemTypes", kinds).
		setBool("Recursive", q.Recursive).
		setList("Filters", q.Filters).
		setList("Fields", fields)

	return c.itemPage(ctx, "Users/{id}/Items", "Users/"+url.PathEscape(userID)+"/Items", params)
}

// Item retrieves a single item with the user's data attached.
func (c *Client) Item(ctx context.Context, itemID string) (*models.MediaItem, error) {
	userID, err := c.userID()
	if err != nil {
		return nil, err
	}

	var item models.MediaItem
	path := "Users/" + url.PathEscape(userID) + "/Items/" + url.PathEscape(itemID)
	if err := c.getJSON(ctx, "Users/{id}/Items/{itemId}", path, nil, &item); err != nil {
		return nil, fmt.Errorf("jellyfin item %s: %w", itemID, err)
	}
	if item.ID == "" {
		return nil, fmt.Errorf("jellyfin item %s: Id: %w", itemID, ErrMissingField)
	}
	return &item, nil
}

// Resume retrieves partially watched videos, newest first. A non-empty
// parentID scopes the listing to one series or library.
func (c *Client) Resume(ctx context.Context, parentID string, limit int) (*models.Page[models.MediaItem], error) {
	userID, err := c.userID()
	if err != nil {
		return nil, err
	}
	params := (&query{}).
		set("ParentId", parentID).
		setInt("Limit", limit).
		set("MediaTypes", "Video").
		setList("Fields", defaultFields)
	return c.itemPage(ctx, "Users/{id}/Items/Resume", "Users/"+url.PathEscape(userID)+"/Items/Resume", params)
}

// NextUp retrieves the next unwatched episodes. A non-empty seriesID scopes
// the listing to one series.
func (c *Client) NextUp(ctx context.Context, seriesID string, limit int) (*models.Page[models.MediaItem], error) {
	userID, err := c.userID()
	if err != nil {
		return nil, err
	}
	params := (&query{}).
		set("UserId", userID).
		set("SeriesId", seriesID).
		setInt("Limit", limit).
		setList("Fields", defaultFields)
	return c.itemPage(ctx, "Shows/NextUp", "Shows/NextUp", params)
}

// Seasons retrieves the seasons of a series.
func (c *Client) Seasons(ctx context.Context, seriesID string) (*models.Page[models.MediaItem], error) {
	userID, err := c.userID()
	if err != nil {
		return nil, err
	}
	params := (&query{}).set("UserId", userID)
	return c.itemPage(ctx, "Shows/{id}/Seasons", "Shows/"+url.PathEscape(seriesID)+"/Seasons", params)
}

// Episodes retrieves the episodes of a series in airing order. A non-empty
// seasonID restricts them to one season.
func (c *Client) Episodes(ctx context.Context, seriesID, seasonID string) (*models.Page[models.MediaItem], error) {
	userID, err := c.userID()
	if err != nil {
		return nil, err
	}
	params := (&query{}).
		set("UserId", userID).
		set("SeasonId", seasonID).
		setList("Fields", defaultFields)
	return c.itemPage(ctx, "Shows/{id}/Episodes", "Shows/"+url.PathEscape(seriesID)+"/Episodes", params)
}

// itemPage fetches and validates a page of items.
func (c *Client) itemPage(ctx context.Context, route, path string, params *query) (*models.Page[models.MediaItem], error) {
	var page models.Page[models.MediaItem]
	if err := c.getJSON(ctx, route, path, params, &page); err != nil {
		return nil, fmt.Errorf("jellyfin %s: %w", strings.ToLower(route), err)
	}
	for i := range page.Items {
		if page.Items[i].ID == "" {
			return nil, fmt.Errorf("jellyfin %s: item %d has no Id: %w", strings.ToLower(route), i, ErrMissingField)
		}
	}
	if page.TotalRecordCount < len(page.Items) {
		page.TotalRecordCount = page.StartIndex + len(page.Items)
	}
	return &page, nil
}
