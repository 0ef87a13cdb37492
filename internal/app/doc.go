// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

/*
Package app wires the client core together.

An App owns the configuration, the account store, the API client of the
signed-in account, the playback resolver and session manager, the player
registry, the image cache of the current server and the supervisor tree.
User interfaces hold one App and call it; nothing else is global.

Typical use:

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	go a.Run(ctx)

	if _, err := a.SignIn(ctx, "https://media.example.com", "alice", pw); err != nil {
		fmt.Println(app.SignInMessage(err))
	}
	pb, err := a.Play(ctx, item, player)

Switching accounts with SignIn or SignOut stops playback and restarts the
notification listener for the new account.
*/
package app
