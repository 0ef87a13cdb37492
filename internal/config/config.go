// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package config

import (
	"time"

	"github.com/tomtom215/finplay/internal/logging"
)

// Config holds all client configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig
//  2. Config File: optional YAML file (see DefaultConfigPaths)
//  3. Environment Variables: FINPLAY_* overrides
//
// The client never writes configuration back. Per-user state such as
// signed-in accounts lives in the account store instead.
type Config struct {
	Client        ClientConfig        `koanf:"client"`
	Playback      PlaybackConfig      `koanf:"playback"`
	Images        ImagesConfig        `koanf:"images"`
	Accounts      AccountsConfig      `koanf:"accounts"`
	Breaker       BreakerConfig       `koanf:"breaker"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Logging       LoggingConfig       `koanf:"logging"`
	Metrics       MetricsConfig       `koanf:"metrics"`
}

// ClientConfig identifies this client to the server.
type ClientConfig struct {
	Name       string        `koanf:"name" validate:"required"`
	Version    string        `koanf:"version" validate:"required"`
	DeviceName string        `koanf:"device_name" validate:"required"`
	Timeout    time.Duration `koanf:"timeout" validate:"gte=1s,lte=10m"`
}

// PlaybackConfig tunes session reporting and seeking.
type PlaybackConfig struct {
	ReportInterval time.Duration `koanf:"report_interval" validate:"gte=1s"`
	SkipForward    time.Duration `koanf:"skip_forward" validate:"gt=0"`
	SkipBackward   time.Duration `koanf:"skip_backward" validate:"gt=0"`
}

// ImagesConfig configures the on-disk image cache.
type ImagesConfig struct {
	CacheDir   string  `koanf:"cache_dir" validate:"required"`
	Quality    int     `koanf:"quality" validate:"min=1,max=100"`
	FetchRate  float64 `koanf:"fetch_rate" validate:"gte=0"`
	FetchBurst int     `koanf:"fetch_burst" validate:"gte=1"`
	IndexSize  int     `koanf:"index_size" validate:"gte=1"`
}

// AccountsConfig locates the account store.
type AccountsConfig struct {
	// StorePath is the BadgerDB directory. Empty keeps accounts in memory.
	StorePath string `koanf:"store_path"`
}

// BreakerConfig tunes the circuit breaker around the API client.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MinRequests  uint32        `koanf:"min_requests" validate:"gte=1"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gt=0,lte=1"`
	Interval     time.Duration `koanf:"interval" validate:"gt=0"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
}

// NotificationsConfig controls the server notification socket.
type NotificationsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// LoggingConfig returns the settings for logging.Init.
func (l LoggingConfig) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	cfg.Caller = l.Caller
	return cfg
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// ListenAddr serves /metrics when set, e.g. "127.0.0.1:9464".
	ListenAddr string `koanf:"listen_addr" validate:"omitempty,hostname_port"`
}
