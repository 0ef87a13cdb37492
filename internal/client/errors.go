// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork covers transport failures: DNS, refused connections, TLS,
	// dropped connections and breaker rejections.
	ErrNetwork = errors.New("network error")

	// ErrTimeout is returned when a request deadline expires. It matches ErrNetwork.
	ErrTimeout = fmt.Errorf("%w: request timed out", ErrNetwork)

	// ErrRequestFailed is matched by every *StatusError.
	ErrRequestFailed = errors.New("request failed")

	// ErrDecode is returned when a response body does not match the expected shape.
	ErrDecode = errors.New("malformed response")

	// ErrAuth is returned when the server rejects the supplied credentials.
	ErrAuth = errors.New("invalid username or password")

	// ErrMissingField is returned when a decoded response lacks a required field.
	ErrMissingField = errors.New("missing required field")

	// ErrNotSignedIn is returned by user-scoped calls on a client built without an account.
	ErrNotSignedIn = errors.New("no signed-in account")
)

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Code     int
	Endpoint string
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.Code, e.Body)
}

// Unwrap lets errors.Is(err, ErrRequestFailed) match.
func (e *StatusError) Unwrap() error {
	return ErrRequestFailed
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// isExpected reports whether err describes the server's answer rather than
// its health: client-side 4xx statuses and wrong credentials.
func isExpected(err error) bool {
	if errors.Is(err, ErrAuth) {
		return true
	}
	code := StatusCode(err)
	return code >= 400 && code < 500
}
