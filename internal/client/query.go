// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package client

import (
	"net/url"
	"strconv"
	"strings"
)

// query is an ordered list of query parameters. url.Values sorts its keys
// when encoding, and some endpoints are matched on the literal URL.
type query struct {
	keys   []string
	values []string
}

func (q *query) set(key, value string) *query {
	if value == "" {
		return q
	}
	q.keys = append(q.keys, key)
	q.values = append(q.values, value)
	return q
}

func (q *query) setInt(key string, value int) *query {
	if value <= 0 {
		return q
	}
	return q.set(key, strconv.Itoa(value))
}

func (q *query) setBool(key string, value bool) *query {
	if !value {
		return q
	}
	return q.set(key, "true")
}

func (q *query) setList(key string, values []string) *query {
	if len(values) == 0 {
		return q
	}
	return q.set(key, strings.Join(values, ","))
}

func (q *query) encode() string {
	if q == nil || len(q.keys) == 0 {
		return ""
	}
	var b strings.Builder
	for i, k := range q.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(q.values[i]))
	}
	return b.String()
}
