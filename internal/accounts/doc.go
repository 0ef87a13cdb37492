// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

/*
Package accounts stores signed-in accounts in BadgerDB.

Keys:

	account:<serverID>:<userID>   JSON encoded models.Account
	current                       key of the active account
	device:id                     device id generated once per installation

Access tokens are stored as issued by the server. Protect the store
directory with filesystem permissions.
*/
package accounts
