// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package imagecache

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/finplay/internal/models"
)

// ErrInvalidReference is returned for references that cannot name an image.
var ErrInvalidReference = errors.New("invalid image reference")

// normalize applies the default quality and validates ref.
func normalize(ref models.ImageReference) (models.ImageReference, error) {
	if ref.Quality <= 0 {
		ref.Quality = models.DefaultImageQuality
	}
	switch {
	case ref.ItemID == "":
		return ref, fmt.Errorf("%w: missing item id", ErrInvalidReference)
	case strings.ContainsAny(ref.ItemID, `/\`) || strings.Contains(ref.ItemID, ".."):
		return ref, fmt.Errorf("%w: item id %q", ErrInvalidReference, ref.ItemID)
	case ref.Kind == "":
		return ref, fmt.Errorf("%w: missing image kind", ErrInvalidReference)
	case !ref.Kind.Valid():
		return ref, fmt.Errorf("%w: image kind %q", ErrInvalidReference, ref.Kind)
	case !ref.Variant.Valid():
		return ref, fmt.Errorf("%w: size variant %q", ErrInvalidReference, ref.Variant)
	case ref.Size <= 0:
		return ref, fmt.Errorf("%w: size %d", ErrInvalidReference, ref.Size)
	}
	return ref, nil
}

// URL builds the remote rendition URL under the server root:
//
//	{root}/Items/{id}/Images/{kind}?{variant}={size}&quality={q}[&tag={tag}]
func URL(root string, ref models.ImageReference) (string, error) {
	ref, err := normalize(ref)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(strings.TrimSuffix(root, "/"))
	b.WriteString("/Items/")
	b.WriteString(url.PathEscape(ref.ItemID))
	b.WriteString("/Images/")
	b.WriteString(url.PathEscape(string(ref.Kind)))
	b.WriteByte('?')
	b.WriteString(string(ref.Variant))
	b.WriteByte('=')
	b.WriteString(strconv.Itoa(ref.Size))
	b.WriteString("&quality=")
	b.WriteString(strconv.Itoa(ref.Quality))
	if ref.Tag != "" {
		b.WriteString("&tag=")
		b.WriteString(url.QueryEscape(ref.Tag))
	}
	return b.String(), nil
}

// Filename is the cache file name of a rendition. It depends only on the
// item, kind, variant, size and quality, never on the tag.
func Filename(ref models.ImageReference) (string, error) {
	ref, err := normalize(ref)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s=%d&quality=%d", ref.ItemID, ref.Kind, ref.Variant, ref.Size, ref.Quality), nil
}
