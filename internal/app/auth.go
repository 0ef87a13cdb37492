// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/finplay/internal/client"
	"github.com/tomtom215/finplay/internal/logging"
	"github.com/tomtom215/finplay/internal/models"
)

// Messages shown to the user after a failed sign-in.
const (
	MessageWrongCredentials = "Wrong username or password."
	MessageSignInFailed     = "Could not sign in. Check the server address and your connection."
)

// SignInMessage turns a SignIn error into text for the user.
func SignInMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, client.ErrAuth):
		return MessageWrongCredentials
	default:
		return MessageSignInFailed
	}
}

// SignIn authenticates against serverURL, stores the account as current and
// switches every component to it. Playback of the previous account ends.
func (a *App) SignIn(ctx context.Context, serverURL, username, password string) (*models.Account, error) {
	anon, err := client.New(a.clientOptions(serverURL), nil)
	if err != nil {
		return nil, err
	}

	info, err := anon.PublicInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	account, err := anon.AuthenticateByName(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	account.ServerName = info.ServerName

	a.StopPlayback(ctx)
	a.stopNotifier()

	if err := a.store.Save(ctx, account); err != nil {
		return nil, err
	}
	if err := a.connect(account); err != nil {
		return nil, err
	}
	a.startNotifier()

	logging.Ctx(ctx).Info().
		Str("server", account.ServerURL).
		Str("server_name", account.ServerName).
		Str("user", account.UserName).
		Msg("Signed in")
	return account, nil
}

// SignOut ends playback, revokes the access token and forgets the account.
// A failed revoke is logged; the local account is removed either way.
func (a *App) SignOut(ctx context.Context) error {
	a.mu.RLock()
	raw := a.raw
	a.mu.RUnlock()
	if raw == nil {
		return client.ErrNotSignedIn
	}
	account := raw.Account()

	a.StopPlayback(ctx)
	a.stopNotifier()

	if err := raw.Logout(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Server logout failed")
	}
	a.disconnect()

	if err := a.store.Delete(ctx, account.Key()); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	logging.Ctx(ctx).Info().Str("user", account.UserName).Msg("Signed out")
	return nil
}
