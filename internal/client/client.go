// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

/*
client.go - Jellyfin REST API Client

This file implements the request/response mapping layer for a Jellyfin
compatible server: URL construction, the MediaBrowser authorization header,
transport and status error mapping, and JSON decoding.

API Reference: https://api.jellyfin.org/
*/

package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/finplay/internal/metrics"
	"github.com/tomtom215/finplay/internal/models"
)

// DefaultTimeout bounds every request unless Options.Timeout overrides it.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps response bodies. BIF files are the largest payload.
const maxBodySize = 64 << 20

// API defines the server operations used by the rest of the client.
// Both Client and BreakerClient implement this interface.
type API interface {
	PublicInfo(ctx context.Context) (*models.PublicSystemInfo, error)
	Ping(ctx context.Context) error
	AuthenticateByName(ctx context.Context, username, password string) (*models.Account, error)
	Logout(ctx context.Context) error

	Views(ctx context.Context) (*models.Page[models.MediaItem], error)
	Items(ctx context.Context, q models.ItemQuery) (*models.Page[models.MediaItem], error)
	Item(ctx context.Context, itemID string) (*models.MediaItem, error)
	Resume(ctx context.Context, parentID string, limit int) (*models.Page[models.MediaItem], error)
	NextUp(ctx context.Context, seriesID string, limit int) (*models.Page[models.MediaItem], error)
	Seasons(ctx context.Context, seriesID string) (*models.Page[models.MediaItem], error)
	Episodes(ctx context.Context, seriesID, seasonID string) (*models.Page[models.MediaItem], error)

	ReportPlayback(ctx context.Context, report *models.PlaybackProgressReport) error

	IntroTimestamps(ctx context.Context, episodeID string) (*models.IntroTimestamps, error)
	TrickplayManifest(ctx context.Context, itemID string) (*models.TrickplayManifest, error)
	TrickplayBIF(ctx context.Context, itemID string, width int) ([]byte, error)
	FetchURL(ctx context.Context, rawURL string) ([]byte, error)
}

// Ensure Client implements API
var _ API = (*Client)(nil)

// Options holds the connection parameters of a Client.
type Options struct {
	ServerURL  string
	ClientName string
	Version    string
	DeviceName string
	DeviceID   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client provides access to the Jellyfin REST API. It holds only immutable
// connection parameters and is safe for concurrent use.
type Client struct {
	root       *url.URL
	opts       Options
	account    *models.Account
	httpClient *http.Client
	authHeader string
}

// New creates a Jellyfin API client.
//
// A nil account yields an unauthenticated client that can only call the
// public endpoints and AuthenticateByName. When account is set, its server
// URL and device id take precedence over opts.
func New(opts Options, account *models.Account) (*Client, error) {
	if account != nil {
		if account.ServerURL != "" {
			opts.ServerURL = account.ServerURL
		}
		if account.DeviceID != "" {
			opts.DeviceID = account.DeviceID
		}
	}

	root, err := parseServerURL(opts.ServerURL)
	if err != nil {
		return nil, err
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	token := ""
	if account != nil {
		token = account.AccessToken
	}

	return &Client{
		root:       root,
		opts:       opts,
		account:    account,
		httpClient: httpClient,
		authHeader: AuthorizationHeader(opts.ClientName, opts.DeviceName, opts.DeviceID, opts.Version, token),
	}, nil
}

// WithAccount returns a client for the same server authenticated as account.
func (c *Client) WithAccount(account *models.Account) (*Client, error) {
	opts := c.opts
	opts.HTTPClient = c.httpClient
	return New(opts, account)
}

// Account returns the account the client is authenticated as, or nil.
func (c *Client) Account() *models.Account {
	return c.account
}

// ServerURL returns the normalized server root without a trailing slash.
func (c *Client) ServerURL() string {
	return strings.TrimSuffix(c.root.String(), "/")
}

// AuthorizationHeader formats the MediaBrowser authorization header. The
// token part is omitted when token is empty.
func AuthorizationHeader(clientName, device, deviceID, version, token string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `MediaBrowser Client="%s", Device="%s", DeviceId="%s", Version="%s"`,
		headerValue(clientName), headerValue(device), headerValue(deviceID), headerValue(version))
	if token != "" {
		fmt.Fprintf(&b, `, Token="%s"`, headerValue(token))
	}
	return b.String()
}

// headerValue escapes characters that would break the quoted header fields.
func headerValue(s string) string {
	if !strings.ContainsAny(s, "\" ,%\r\n") {
		return s
	}
	return url.PathEscape(s)
}

func parseServerURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("server URL is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// request describes one API call. route is the path template used as the
// metrics label; path is the concrete relative path.
type request struct {
	method string
	route  string
	path   string
	query  *query
	body   any
}

// resolve joins the server root with an escaped relative path and query.
func (c *Client) resolve(path string, q *query) string {
	u := *c.root
	u.RawPath = c.root.EscapedPath() + strings.TrimPrefix(path, "/")
	if unescaped, err := url.PathUnescape(u.RawPath); err == nil {
		u.Path = unescaped
	} else {
		u.Path = u.RawPath
		u.RawPath = ""
	}
	u.RawQuery = q.encode()
	return u.String()
}

// do issues req and returns the response body of a 2xx response.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	return c.doURL(ctx, req.method, req.route, c.resolve(req.path, req.query), req.body)
}

func (c *Client) doURL(ctx context.Context, method, route, fullURL string, body any) ([]byte, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", route, err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", c.authHeader)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			metrics.RecordAPITimeout(route, time.Since(start))
			return nil, fmt.Errorf("%s %s: %w", method, route, ErrTimeout)
		}
		metrics.RecordAPIRequest(route, 0, time.Since(start))
		return nil, fmt.Errorf("%s %s: %w: %w", method, route, ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	metrics.RecordAPIRequest(route, resp.StatusCode, time.Since(start))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%s %s: %w", method, route, ErrTimeout)
		}
		return nil, fmt.Errorf("%s %s: reading body: %w: %w", method, route, ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Endpoint: route, Body: truncate(string(data), 256)}
	}
	return data, nil
}

// getJSON performs a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, route, path string, q *query, out any) error {
	data, err := c.do(ctx, request{method: http.MethodGet, route: route, path: path, query: q})
	if err != nil {
		return err
	}
	return decode(route, data, out)
}

// getOptionalJSON is getJSON for endpoints where 404 means "absent". It
// reports whether a value was decoded.
func (c *Client) getOptionalJSON(ctx context.Context, route, path string, out any) (bool, error) {
	err := c.getJSON(ctx, route, path, nil, out)
	if IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// post sends body as JSON and discards the response.
func (c *Client) post(ctx context.Context, route, path string, body any) error {
	_, err := c.do(ctx, request{method: http.MethodPost, route: route, path: path, body: body})
	return err
}

func decode(route string, data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%s: empty body: %w", route, ErrDecode)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w: %w", route, ErrDecode, err)
	}
	return nil
}

// userID returns the signed-in user id or ErrNotSignedIn.
func (c *Client) userID() (string, error) {
	if c.account == nil || c.account.UserID == "" {
		return "", ErrNotSignedIn
	}
	return c.account.UserID, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
