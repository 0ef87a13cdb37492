// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/finplay/internal/accounts"
	"github.com/tomtom215/finplay/internal/client"
	"github.com/tomtom215/finplay/internal/config"
	"github.com/tomtom215/finplay/internal/imagecache"
	"github.com/tomtom215/finplay/internal/logging"
	"github.com/tomtom215/finplay/internal/models"
	"github.com/tomtom215/finplay/internal/playback"
	"github.com/tomtom215/finplay/internal/supervisor"
)

// App is the application context. It owns every long-lived component and
// is passed explicitly to whatever needs them; there is no package-level
// state besides the logger and metrics registry.
type App struct {
	cfg      *config.Config
	store    *accounts.Store
	deviceID string
	httpc    *http.Client

	// ctx bounds background work such as reporter loops; Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	registry *playback.Registry
	resolver *playback.Resolver
	sessions *playback.Sessions
	tree     *supervisor.Tree

	mu       sync.RWMutex
	raw      *client.Client
	api      client.API
	images   *imagecache.Cache
	handle   *playback.Handle
	running  bool
	notifier []suture.ServiceToken
}

// Option customizes New.
type Option func(*App)

// WithHTTPClient sets the HTTP client used for every server request.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) { a.httpc = c }
}

// WithStore uses an already open account store. The App closes it.
func WithStore(s *accounts.Store) Option {
	return func(a *App) { a.store = s }
}

// New opens the account store, restores the current account if there is
// one, and builds the playback components.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	a := &App{cfg: cfg, registry: playback.NewRegistry()}
	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		store, err := accounts.Open(cfg.Accounts.StorePath)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	a.ctx, a.cancel = context.WithCancel(context.Background())

	deviceID, err := a.store.DeviceID(a.ctx)
	if err != nil {
		a.cancel()
		_ = a.store.Close()
		return nil, err
	}
	a.deviceID = deviceID

	proxy := &apiProxy{app: a}
	a.resolver = playback.NewResolver(proxy)
	a.sessions = playback.NewSessions(proxy, playback.ReporterOptions{Interval: cfg.Playback.ReportInterval})
	a.tree = supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	account, err := a.store.Current(a.ctx)
	switch {
	case errors.Is(err, accounts.ErrNoAccount):
		logging.Info().Msg("No signed-in account")
	case err != nil:
		a.cancel()
		_ = a.store.Close()
		return nil, err
	default:
		if err := a.connect(account); err != nil {
			a.cancel()
			_ = a.store.Close()
			return nil, err
		}
		logging.Info().Str("server", account.ServerURL).Str("user", account.UserName).Msg("Restored signed-in account")
	}
	return a, nil
}

// clientOptions returns the connection parameters for serverURL.
func (a *App) clientOptions(serverURL string) client.Options {
	return client.Options{
		ServerURL:  serverURL,
		ClientName: a.cfg.Client.Name,
		Version:    a.cfg.Client.Version,
		DeviceName: a.cfg.Client.DeviceName,
		DeviceID:   a.deviceID,
		Timeout:    a.cfg.Client.Timeout,
		HTTPClient: a.httpc,
	}
}

// connect builds the API client and image cache for account.
func (a *App) connect(account *models.Account) error {
	raw, err := client.New(a.clientOptions(account.ServerURL), account)
	if err != nil {
		return err
	}

	var api client.API = raw
	if b := a.cfg.Breaker; b.Enabled {
		api = client.NewBreakerClient(raw, client.BreakerSettings{
			MinRequests:  b.MinRequests,
			FailureRatio: b.FailureRatio,
			Interval:     b.Interval,
			Timeout:      b.Timeout,
		})
	}

	images, err := imagecache.New(api, imagecache.Options{
		Dir:        filepath.Join(a.cfg.Images.CacheDir, account.ServerID),
		ServerURL:  raw.ServerURL(),
		FetchRate:  a.cfg.Images.FetchRate,
		FetchBurst: a.cfg.Images.FetchBurst,
		Quality:    a.cfg.Images.Quality,
		IndexSize:  a.cfg.Images.IndexSize,
	})
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.raw, a.api, a.images = raw, api, images
	a.mu.Unlock()
	return nil
}

func (a *App) disconnect() {
	a.mu.Lock()
	a.raw, a.api, a.images = nil, nil, nil
	a.mu.Unlock()
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// DeviceID returns this installation's device id.
func (a *App) DeviceID() string {
	return a.deviceID
}

// Account returns the signed-in account, or nil.
func (a *App) Account() *models.Account {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.raw == nil {
		return nil
	}
	return a.raw.Account()
}

// API returns the client for the signed-in account.
func (a *App) API() (client.API, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.api == nil {
		return nil, client.ErrNotSignedIn
	}
	return a.api, nil
}

// Client returns the unwrapped client for URL building.
func (a *App) Client() (*client.Client, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.raw == nil {
		return nil, client.ErrNotSignedIn
	}
	return a.raw, nil
}

// Images returns the image cache of the signed-in server.
func (a *App) Images() (*imagecache.Cache, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.images == nil {
		return nil, client.ErrNotSignedIn
	}
	return a.images, nil
}

// Accounts returns the account store.
func (a *App) Accounts() *accounts.Store {
	return a.store
}

// Resolver returns the playback resolver.
func (a *App) Resolver() *playback.Resolver {
	return a.resolver
}

// Sessions returns the playback session manager.
func (a *App) Sessions() *playback.Sessions {
	return a.sessions
}

// Registry returns the player registry.
func (a *App) Registry() *playback.Registry {
	return a.registry
}

// Close stops playback, cancels background work and closes the store.
func (a *App) Close() error {
	a.StopPlayback(context.Background())
	a.cancel()
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("close account store: %w", err)
	}
	return nil
}
