// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

/*
Package bif decodes BIF (Base Index Frames) trickplay files.

A BIF file is a 64 byte little-endian header followed by an index of
(timestamp, offset) pairs and the concatenated JPEG thumbnails:

	0   magic      89 42 49 46 0D 0A 1A 0A
	8   version    uint32, must be 0
	12  count      uint32, number of images
	16  multiplier uint32, milliseconds per timestamp unit (0 means 1000)
	20  reserved   up to byte 64
	64  index      count+1 entries of {timestamp uint32, offset uint32}

The last index entry has timestamp 0xFFFFFFFF and its offset marks the end
of the final image. Frame i spans offset[i] up to offset[i+1].
*/
package bif
