// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package models

import "time"

// Account is a signed-in user on one server.
//
// An Account is created by a successful sign-in and destroyed on sign-out.
// It is never modified in between, so it is safe to share across goroutines
// without locking.
type Account struct {
	ServerURL   string    `json:"ServerUrl"`
	ServerID    string    `json:"ServerId"`
	ServerName  string    `json:"ServerName,omitempty"`
	DeviceID    string    `json:"DeviceId"`
	UserID      string    `json:"UserId"`
	UserName    string    `json:"UserName"`
	AccessToken string    `json:"AccessToken"`
	CreatedAt   time.Time `json:"CreatedAt"`
}

// Key identifies the account within a local account store.
func (a *Account) Key() string {
	return a.ServerID + ":" + a.UserID
}

// AuthenticateByNameRequest is the body of Users/AuthenticateByName.
type AuthenticateByNameRequest struct {
	Username string `json:"Username"`
	Pw       string `json:"Pw"`
}

// AuthenticationResult is the response of Users/AuthenticateByName.
type AuthenticationResult struct {
	User        AuthenticatedUser `json:"User"`
	AccessToken string            `json:"AccessToken"`
	ServerID    string            `json:"ServerId"`
}

// AuthenticatedUser is the user block inside AuthenticationResult.
type AuthenticatedUser struct {
	ID       string `json:"Id"`
	Name     string `json:"Name"`
	ServerID string `json:"ServerId"`
}

// PublicSystemInfo is the unauthenticated server description from System/Info/Public.
type PublicSystemInfo struct {
	LocalAddress           string `json:"LocalAddress"`
	ServerName             string `json:"ServerName"`
	Version                string `json:"Version"`
	ProductName            string `json:"ProductName"`
	ID                     string `json:"Id"`
	StartupWizardCompleted bool   `json:"StartupWizardCompleted"`
}
