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
)

// StreamOptions tunes the stream URL handed to the video engine.
type StreamOptions struct {
	PlaySessionID string
	Container     string // empty selects the original container
	StartTicks    int64
}

// StreamURL builds a direct-play URL for an item. The access token travels
// in the query because the video engine issues the request itself.
func (c *Client) StreamURL(itemID string, opts StreamOptions) string {
	path := "Videos/" + url.PathEscape(itemID) + "/stream"
	if opts.Container != "" {
		path += "." + opts.Container
	}

	params := (&query{}).
		set("static", "true").
		set("MediaSourceId", itemID).
		set("DeviceId", c.opts.DeviceID).
		set("PlaySessionId", opts.PlaySessionID)
	if opts.StartTicks > 0 {
		params.set("StartTimeTicks", fmt.Sprint(opts.StartTicks))
	}
	if c.account != nil {
		params.set("api_key", c.account.AccessToken)
	}
	return c.resolve(path, params)
}

// FetchURL downloads an absolute URL on the same server with the client's
// authorization. The image cache uses it for image renditions.
func (c *Client) FetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Host != c.root.Host {
		return nil, fmt.Errorf("refusing to fetch %q from a different host", rawURL)
	}
	return c.doURL(ctx, http.MethodGet, "Items/{id}/Images", rawURL, nil)
}
