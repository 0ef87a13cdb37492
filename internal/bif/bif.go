// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package bif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"sort"
	"time"

	"github.com/disintegration/imaging"
)

// Magic is the eight byte signature every BIF file starts with.
var Magic = [8]byte{0x89, 0x42, 0x49, 0x46, 0x0D, 0x0A, 0x1A, 0x0A}

const (
	headerSize        = 64
	indexEntrySize    = 8
	indexTerminator   = 0xFFFFFFFF
	defaultMultiplier = 1000 // milliseconds per timestamp unit
	supportedVersion  = 0
)

var (
	ErrInvalidMagic       = errors.New("bif: invalid magic")
	ErrUnsupportedVersion = errors.New("bif: unsupported version")
	ErrTruncated          = errors.New("bif: truncated data")
	ErrCorruptIndex       = errors.New("bif: corrupt index")
)

// Frame is one thumbnail. Image aliases the buffer passed to Decode.
type Frame struct {
	Timestamp time.Duration
	Image     []byte
}

// DecodeImage decodes the frame's JPEG payload.
func (f Frame) DecodeImage() (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(f.Image))
	if err != nil {
		return nil, fmt.Errorf("bif: decode frame at %v: %w", f.Timestamp, err)
	}
	return img, nil
}

// Header is the fixed part of a BIF file.
type Header struct {
	Version    uint32
	ImageCount uint32
	// Multiplier is the number of milliseconds per timestamp unit.
	Multiplier uint32
}

// ParseHeader validates the signature and version and returns the header.
func ParseHeader(data []byte) (Header, error) {
	n := min(len(data), len(Magic))
	if !bytes.Equal(data[:n], Magic[:n]) {
		return Header{}, ErrInvalidMagic
	}
	if len(data) < headerSize {
		return Header{}, fmt.Errorf("%w: %d byte header", ErrTruncated, len(data))
	}

	h := Header{
		Version:    binary.LittleEndian.Uint32(data[8:12]),
		ImageCount: binary.LittleEndian.Uint32(data[12:16]),
		Multiplier: binary.LittleEndian.Uint32(data[16:20]),
	}
	if h.Version != supportedVersion {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if h.Multiplier == 0 {
		h.Multiplier = defaultMultiplier
	}
	return h, nil
}

// maxTimestampMillis is the largest frame time a time.Duration can hold.
const maxTimestampMillis = uint64(math.MaxInt64 / int64(time.Millisecond))

type indexEntry struct {
	timestamp uint32
	offset    uint32
}

// Decode parses a BIF file into its frames in file order.
func Decode(data []byte) ([]Frame, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	var entries []indexEntry
	for pos := headerSize; ; pos += indexEntrySize {
		if pos+indexEntrySize > len(data) {
			return nil, fmt.Errorf("%w: index ends at entry %d", ErrTruncated, len(entries))
		}
		e := indexEntry{
			timestamp: binary.LittleEndian.Uint32(data[pos : pos+4]),
			offset:    binary.LittleEndian.Uint32(data[pos+4 : pos+8]),
		}
		entries = append(entries, e)
		if e.timestamp == indexTerminator {
			break
		}
		if h.ImageCount > 0 && len(entries) > int(h.ImageCount) {
			return nil, fmt.Errorf("%w: no terminator after %d images", ErrCorruptIndex, h.ImageCount)
		}
	}

	frames := make([]Frame, 0, len(entries)-1)
	for i := 0; i < len(entries)-1; i++ {
		start, end := int(entries[i].offset), int(entries[i+1].offset)
		if end > len(data) {
			return nil, fmt.Errorf("%w: frame %d ends at %d of %d bytes", ErrTruncated, i, end, len(data))
		}
		if start < headerSize || start > end {
			return nil, fmt.Errorf("%w: frame %d spans %d..%d", ErrCorruptIndex, i, start, end)
		}
		ms := uint64(entries[i].timestamp) * uint64(h.Multiplier)
		if ms > maxTimestampMillis {
			return nil, fmt.Errorf("%w: frame %d timestamp %d x %dms overflows", ErrCorruptIndex, i, entries[i].timestamp, h.Multiplier)
		}
		frames = append(frames, Frame{
			Timestamp: time.Duration(ms) * time.Millisecond,
			Image:     data[start:end:end],
		})
	}
	return frames, nil
}

// FrameAt returns the latest frame whose timestamp is at or before position.
// Positions before the first frame select the first frame. ok is false only
// when frames is empty.
func FrameAt(frames []Frame, position time.Duration) (frame Frame, ok bool) {
	if len(frames) == 0 {
		return Frame{}, false
	}
	i := sort.Search(len(frames), func(i int) bool {
		return frames[i].Timestamp > position
	})
	if i == 0 {
		return frames[0], true
	}
	return frames[i-1], true
}
