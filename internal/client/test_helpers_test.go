// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/finplay/internal/models"
)

const (
	testToken    = "test-token"
	testUserID   = "user-1"
	testDeviceID = "device-1"
)

func testOptions(serverURL string) Options {
	return Options{
		ServerURL:  serverURL,
		ClientName: "Finplay",
		Version:    "1.0.0",
		DeviceName: "testhost",
		DeviceID:   testDeviceID,
	}
}

func testAccount(serverURL string) *models.Account {
	return &models.Account{
		ServerURL:   serverURL,
		ServerID:    "server-1",
		DeviceID:    testDeviceID,
		UserID:      testUserID,
		UserName:    "alice",
		AccessToken: testToken,
	}
}

// newTestClient starts an httptest server with handler and returns a signed-in client.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(testOptions(server.URL), testAccount(server.URL))
	checkNoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
