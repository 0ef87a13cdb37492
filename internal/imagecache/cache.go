// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package imagecache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/finplay/internal/cache"
	"github.com/tomtom215/finplay/internal/logging"
	"github.com/tomtom215/finplay/internal/metrics"
	"github.com/tomtom215/finplay/internal/models"
)

// ErrNotImage is returned when the server answers with something that does
// not decode as an image.
var ErrNotImage = errors.New("response is not an image")

// Fetcher downloads an absolute URL. client.API satisfies it.
type Fetcher interface {
	FetchURL(ctx context.Context, rawURL string) ([]byte, error)
}

// Options configures a Cache.
type Options struct {
	Dir       string
	ServerURL string

	// FetchRate is the sustained downloads per second, FetchBurst the
	// burst above it. A zero rate disables pacing.
	FetchRate  float64
	FetchBurst int

	// Quality is used for references that carry none. Zero means
	// models.DefaultImageQuality.
	Quality int

	IndexSize int
	IndexTTL  time.Duration
}

// Cache stores image renditions on disk under a deterministic name.
// A written file is never rewritten, so readers may open it at any time.
type Cache struct {
	dir     string
	root    string
	quality int
	fetcher Fetcher
	limiter *rate.Limiter
	group   singleflight.Group
	index   *cache.LRU[string]
}

// New creates the cache directory if needed.
func New(fetcher Fetcher, opts Options) (*Cache, error) {
	if opts.Dir == "" {
		return nil, errors.New("image cache directory is required")
	}
	if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create image cache directory: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.FetchRate > 0 {
		burst := opts.FetchBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.FetchRate), burst)
	}

	return &Cache{
		dir:     opts.Dir,
		root:    opts.ServerURL,
		quality: opts.Quality,
		fetcher: fetcher,
		limiter: limiter,
		index:   cache.NewLRU[string](opts.IndexSize, opts.IndexTTL),
	}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) withQuality(ref models.ImageReference) models.ImageReference {
	if ref.Quality <= 0 && c.quality > 0 {
		ref.Quality = c.quality
	}
	return ref
}

// URL returns the remote URL of ref on this cache's server.
func (c *Cache) URL(ref models.ImageReference) (string, error) {
	return URL(c.root, c.withQuality(ref))
}

// Path returns where ref is or would be stored.
func (c *Cache) Path(ref models.ImageReference) (string, error) {
	ref = c.withQuality(ref)
	name, err := Filename(ref)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.dir, name), nil
}

// Fetch returns the local path of ref, downloading it on a miss.
// Concurrent fetches of the same rendition share one download.
func (c *Cache) Fetch(ctx context.Context, ref models.ImageReference) (string, error) {
	ref = c.withQuality(ref)
	name, err := Filename(ref)
	if err != nil {
		return "", err
	}
	path := filepath.Join(c.dir, name)

	if _, ok := c.index.Get(name); ok {
		metrics.RecordImageCache("memory")
		return path, nil
	}
	if exists(path) {
		c.index.Add(name, path)
		metrics.RecordImageCache("disk")
		return path, nil
	}

	_, err, shared := c.group.Do(name, func() (interface{}, error) {
		return nil, c.download(ctx, ref, name, path)
	})
	if err != nil {
		metrics.RecordImageCache("error")
		return "", err
	}
	if shared {
		logging.Ctx(ctx).Debug().Str("image", name).Msg("Joined in-flight image download")
	}
	return path, nil
}

func (c *Cache) download(ctx context.Context, ref models.ImageReference, name, path string) error {
	// Another flight may have finished between the stat and Do.
	if exists(path) {
		c.index.Add(name, path)
		metrics.RecordImageCache("disk")
		return nil
	}

	remote, err := c.URL(ref)
	if err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("image fetch %s: %w", name, err)
	}

	data, err := c.fetcher.FetchURL(ctx, remote)
	if err != nil {
		return fmt.Errorf("image fetch %s: %w", name, err)
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("image fetch %s: %w: %w", name, ErrNotImage, err)
	}

	if err := c.writeFile(name, path, data); err != nil {
		return err
	}
	c.index.Add(name, path)
	metrics.ImageFetchBytes.Add(float64(len(data)))
	metrics.RecordImageCache("fetched")
	logging.Ctx(ctx).Debug().Str("image", name).Int("bytes", len(data)).Msg("Cached image")
	return nil
}

// writeFile writes data to a temporary file and renames it into place.
func (c *Cache) writeFile(name, path string, data []byte) error {
	tmp, err := os.CreateTemp(c.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary image file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write image file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close image file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to store image file: %w", err)
	}
	return nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
