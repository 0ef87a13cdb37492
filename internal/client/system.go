// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/finplay/internal/models"
)

// PublicInfo retrieves the unauthenticated server description. It is used
// to check a server address before signing in.
func (c *Client) PublicInfo(ctx context.Context) (*models.PublicSystemInfo, error) {
	var info models.PublicSystemInfo
	if err := c.getJSON(ctx, "System/Info/Public", "System/Info/Public", nil, &info); err != nil {
		return nil, fmt.Errorf("jellyfin public info: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("jellyfin public info: Id: %w", ErrMissingField)
	}
	return &info, nil
}

// Ping tests connectivity to the server
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.do(ctx, request{method: http.MethodGet, route: "System/Ping", path: "System/Ping"}); err != nil {
		return fmt.Errorf("jellyfin ping failed: %w", err)
	}
	return nil
}

// AuthenticateByName signs in with a username and password and returns the
// resulting account. A 401 response yields ErrAuth.
func (c *Client) AuthenticateByName(ctx context.Context, username, password string) (*models.Account, error) {
	body := models.AuthenticateByNameRequest{Username: username, Pw: password}

	data, err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "Users/AuthenticateByName",
		path:   "Users/AuthenticateByName",
		body:   body,
	})
	if err != nil {
		if StatusCode(err) == http.StatusUnauthorized {
			return nil, fmt.Errorf("sign in as %q: %w: %w", username, ErrAuth, err)
		}
		return nil, fmt.Errorf("sign in as %q: %w", username, err)
	}

	var result models.AuthenticationResult
	if err := decode("Users/AuthenticateByName", data, &result); err != nil {
		return nil, err
	}

	var missing []error
	if result.AccessToken == "" {
		missing = append(missing, fmt.Errorf("AccessToken: %w", ErrMissingField))
	}
	if result.User.ID == "" {
		missing = append(missing, fmt.Errorf("User.Id: %w", ErrMissingField))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("sign in as %q: %w", username, errors.Join(missing...))
	}

	serverID := result.ServerID
	if serverID == "" {
		serverID = result.User.ServerID
	}
	name := result.User.Name
	if name == "" {
		name = username
	}

	return &models.Account{
		ServerURL:   c.ServerURL(),
		ServerID:    serverID,
		DeviceID:    c.opts.DeviceID,
		UserID:      result.User.ID,
		UserName:    name,
		AccessToken: result.AccessToken,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Logout invalidates the access token on the server.
func (c *Client) Logout(ctx context.Context) error {
	if c.account == nil {
		return nil
	}
	if err := c.post(ctx, "Sessions/Logout", "Sessions/Logout", nil); err != nil {
		return fmt.Errorf("jellyfin logout: %w", err)
	}
	return nil
}
