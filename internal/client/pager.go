// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package client

import (
	"context"

	"github.com/tomtom215/finplay/internal/models"
)

// DefaultPageSize is the number of items requested per page.
const DefaultPageSize = 100

// Pager walks Users/{id}/Items one page at a time so a view can render
// items as they arrive. It is not safe for concurrent use.
type Pager struct {
	api      API
	query    models.ItemQuery
	pageSize int
	loaded   int
	total    int
	done     bool
}

// NewPager creates a pager over q. q.StartIndex is the first item to load.
func NewPager(api API, q models.ItemQuery, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{
		api:      api,
		query:    q,
		pageSize: pageSize,
		loaded:   q.StartIndex,
		total:    -1,
	}
}

// Next loads the next page. It returns an empty slice once Done is true.
func (p *Pager) Next(ctx context.Context) ([]models.MediaItem, error) {
	if p.done {
		return nil, nil
	}

	q := p.query
	q.StartIndex = p.loaded
	q.Limit = p.pageSize

	page, err := p.api.Items(ctx, q)
	if err != nil {
		return nil, err
	}

	p.loaded += len(page.Items)
	p.total = page.TotalRecordCount
	if len(page.Items) == 0 || p.loaded >= p.total {
		p.done = true
	}
	return page.Items, nil
}

// Progress returns how many items have been loaded and the server's total.
// total is -1 before the first page.
func (p *Pager) Progress() (loaded, total int) {
	return p.loaded, p.total
}

// Done reports whether every page has been loaded.
func (p *Pager) Done() bool {
	return p.done
}

// All loads every remaining page, calling progress after each one.
func (p *Pager) All(ctx context.Context, progress func(loaded, total int)) ([]models.MediaItem, error) {
	var items []models.MediaItem
	for !p.done {
		page, err := p.Next(ctx)
		if err != nil {
			return items, err
		}
		items = append(items, page...)
		if progress != nil {
			progress(p.loaded, p.total)
		}
	}
	return items, nil
}
