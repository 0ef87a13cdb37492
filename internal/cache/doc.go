// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

/*
Package cache provides a generic in-memory LRU index with TTL expiration.

The image cache keeps the names of files it has already confirmed on disk
here, so repeated lookups skip the stat call:

	index := cache.NewLRU[string](2048, 30*time.Minute)
	index.Add(name, path)
	if path, ok := index.Get(name); ok {
	    return path, nil
	}

Entries expire lazily on Get. The index never touches the filesystem, so a
stale entry only means one extra download attempt after an external delete.
*/
package cache
