// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package models

// ImageKind is the server's image type path segment.
type ImageKind string

const (
	ImagePrimary  ImageKind = "Primary"
	ImageBackdrop ImageKind = "Backdrop"
	ImageThumb    ImageKind = "Thumb"
	ImageLogo     ImageKind = "Logo"
	ImageBanner   ImageKind = "Banner"
)

// Valid reports whether k is one of the image kinds the client requests.
func (k ImageKind) Valid() bool {
	switch k {
	case ImagePrimary, ImageBackdrop, ImageThumb, ImageLogo, ImageBanner:
		return true
	default:
		return false
	}
}

// SizeVariant is the query key that tells the server how to scale an image.
type SizeVariant string

const (
	FillWidth  SizeVariant = "fillWidth"
	FillHeight SizeVariant = "fillHeight"
	MaxWidth   SizeVariant = "maxWidth"
	MaxHeight  SizeVariant = "maxHeight"
)

// Valid reports whether v is one of the four sizing keys the server accepts.
func (v SizeVariant) Valid() bool {
	switch v {
	case FillWidth, FillHeight, MaxWidth, MaxHeight:
		return true
	default:
		return false
	}
}

// DefaultImageQuality overrides the server default of 90.
const DefaultImageQuality = 96

// ImageReference identifies one rendition of an item image.
//
// Tag is the server's image version and only travels in the remote URL.
type ImageReference struct {
	ItemID  string
	Kind    ImageKind
	Variant SizeVariant
	Size    int
	Quality int
	Tag     string
}
