// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package imagecache

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/tomtom215/finplay/internal/client"
	"github.com/tomtom215/finplay/internal/models"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(4, 4, color.NRGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

type countingFetcher struct {
	calls   atomic.Int32
	data    []byte
	err     error
	release chan struct{}
	lastURL atomic.Value
}

func (f *countingFetcher) FetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	f.calls.Add(1)
	f.lastURL.Store(rawURL)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.data, f.err
}

func primary(q int) models.ImageReference {
	return models.ImageReference{ItemID: "abc123", Kind: models.ImagePrimary, Variant: models.FillHeight, Size: 300, Quality: q}
}

// ========================================
// URL and filename
// ========================================

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		ref  models.ImageReference
		want string
	}{
		{
			name: "default quality",
			ref:  primary(0),
			want: "http://media.local:8096/Items/abc123/Images/Primary?fillHeight=300&quality=96",
		},
		{
			name: "with tag",
			ref:  models.ImageReference{ItemID: "abc123", Kind: models.ImageBackdrop, Variant: models.MaxWidth, Size: 1280, Quality: 80, Tag: "f00d"},
			want: "http://media.local:8096/Items/abc123/Images/Backdrop?maxWidth=1280&quality=80&tag=f00d",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := URL("http://media.local:8096/", tt.ref)
			if err != nil {
				t.Fatalf("URL: %v", err)
			}
			if got != tt.want {
				t.Errorf("URL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	name, err := Filename(primary(0))
	if err != nil {
		t.Fatalf("Filename: %v", err)
	}
	if want := "abc123-Primary-fillHeight=300&quality=96"; name != want {
		t.Errorf("Filename = %q, want %q", name, want)
	}

	tagged := primary(96)
	tagged.Tag = "v2"
	if again, _ := Filename(tagged); again != name {
		t.Errorf("tag changed the filename: %q", again)
	}

	other, _ := Filename(primary(80))
	if other == name {
		t.Error("different qualities must not share a filename")
	}
}

func TestInvalidReferences(t *testing.T) {
	bad := []models.ImageReference{
		{Kind: models.ImagePrimary, Variant: models.FillWidth, Size: 10},
		{ItemID: "../etc", Kind: models.ImagePrimary, Variant: models.FillWidth, Size: 10},
		{ItemID: "a", Variant: models.FillWidth, Size: 10},
		{ItemID: "a", Kind: models.ImagePrimary, Variant: "width", Size: 10},
		{ItemID: "a", Kind: models.ImagePrimary, Variant: models.FillWidth},
		{ItemID: "a", Kind: "x/../../../escaped", Variant: models.MaxWidth, Size: 10},
		{ItemID: "a", Kind: "Poster", Variant: models.MaxWidth, Size: 10},
	}
	for i, ref := range bad {
		if _, err := Filename(ref); !errors.Is(err, ErrInvalidReference) {
			t.Errorf("case %d: err = %v, want ErrInvalidReference", i, err)
		}
	}
}

func TestPathStaysInCacheDir(t *testing.T) {
	c := newTestCache(t, nil)
	ref := models.ImageReference{ItemID: "abc", Kind: "x/../../../escaped", Variant: models.MaxWidth, Size: 10}

	if path, err := c.Path(ref); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("Path = %q, %v; want ErrInvalidReference", path, err)
	}
	if _, err := c.Fetch(context.Background(), ref); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("Fetch error = %v, want ErrInvalidReference", err)
	}
}

func TestCacheDefaultQuality(t *testing.T) {
	c, err := New(nil, Options{Dir: t.TempDir(), ServerURL: "http://media.local:8096", Quality: 80})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ref := models.ImageReference{ItemID: "a", Kind: models.ImagePrimary, Variant: models.MaxWidth, Size: 300}
	path, err := c.Path(ref)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if !strings.HasSuffix(path, "a-Primary-maxWidth=300&quality=80") {
		t.Errorf("Path = %q, want configured quality", path)
	}

	ref.Quality = 50
	u, err := c.URL(ref)
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if !strings.Contains(u, "quality=50") {
		t.Errorf("URL = %q, explicit quality should win", u)
	}
}

// ========================================
// Fetch
// ========================================

func newTestCache(t *testing.T, f Fetcher) *Cache {
	t.Helper()
	c, err := New(f, Options{Dir: t.TempDir(), ServerURL: "http://media.local:8096"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestFetchStoresOnce(t *testing.T) {
	f := &countingFetcher{data: pngBytes(t)}
	c := newTestCache(t, f)
	ctx := context.Background()

	path, err := c.Fetch(ctx, primary(0))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if filepath.Dir(path) != c.Dir() {
		t.Errorf("path %q is outside the cache dir", path)
	}
	if got, _ := os.ReadFile(path); !bytes.Equal(got, f.data) {
		t.Error("stored file differs from downloaded data")
	}

	again, err := c.Fetch(ctx, primary(96))
	if err != nil || again != path {
		t.Fatalf("second Fetch = %q, %v", again, err)
	}

	// A fresh cache over the same directory must serve from disk.
	fresh, _ := New(f, Options{Dir: c.Dir(), ServerURL: "http://media.local:8096"})
	if _, err := fresh.Fetch(ctx, primary(0)); err != nil {
		t.Fatalf("Fetch from disk: %v", err)
	}

	if n := f.calls.Load(); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}
	if u, _ := f.lastURL.Load().(string); u != "http://media.local:8096/Items/abc123/Images/Primary?fillHeight=300&quality=96" {
		t.Errorf("fetched %q", u)
	}

	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 1 {
		t.Errorf("cache dir has %d entries, want 1 (no temporary files)", len(entries))
	}
}

func TestFetchCollapsesConcurrentRequests(t *testing.T) {
	f := &countingFetcher{data: pngBytes(t), release: make(chan struct{})}
	c := newTestCache(t, f)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Fetch(context.Background(), primary(0))
			errs <- err
		}()
	}
	close(f.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Fetch: %v", err)
		}
	}
	if n := f.calls.Load(); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}
}

func TestFetchRejectsNonImage(t *testing.T) {
	f := &countingFetcher{data: []byte("<html>login</html>")}
	c := newTestCache(t, f)

	_, err := c.Fetch(context.Background(), primary(0))
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("err = %v, want ErrNotImage", err)
	}
	path, _ := c.Path(primary(0))
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("a rejected payload must not be stored")
	}
}

func TestFetchPropagatesClientErrors(t *testing.T) {
	f := &countingFetcher{err: client.ErrNetwork}
	c := newTestCache(t, f)

	if _, err := c.Fetch(context.Background(), primary(0)); !errors.Is(err, client.ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork", err)
	}
}

func TestFetchThroughClient(t *testing.T) {
	data := pngBytes(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/Items/abc123/Images/Primary" || r.URL.RawQuery != "fillHeight=300&quality=96" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		if r.Header.Get("Authorization") == "" {
			t.Error("missing authorization header")
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	api, err := client.New(client.Options{ServerURL: srv.URL, ClientName: "Finplay", Version: "test", DeviceName: "test", DeviceID: "dev"}, nil)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	c, err := New(api, Options{Dir: t.TempDir(), ServerURL: api.ServerURL(), FetchRate: 100, FetchBurst: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 3; i++ {
		path, err := c.Fetch(context.Background(), primary(0))
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if _, err := imaging.Open(path); err != nil {
			t.Errorf("cached file does not open as an image: %v", err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
}
