// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

// Package imagecache builds image rendition URLs and keeps downloaded
// renditions on disk under names derived from the reference alone.
package imagecache
