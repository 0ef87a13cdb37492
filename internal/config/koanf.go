// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/finplay/internal/models"
)

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "FINPLAY_"

// Version is reported to the server unless client.version overrides it.
var Version = "0.1.0"

// DefaultConfigPaths lists the config files searched after CONFIG_PATH, in
// order. The first file found is used.
func DefaultConfigPaths() []string {
	paths := []string{"finplay.yaml", "finplay.yml"}
	if dir := userDir("XDG_CONFIG_HOME", os.UserConfigDir); dir != "" {
		paths = append(paths, filepath.Join(dir, "finplay", "config.yaml"))
	}
	return paths
}

// userDir returns $envVar, falling back to the platform directory.
func userDir(envVar string, platform func() (string, error)) string {
	if dir := os.Getenv(envVar); dir != "" {
		return dir
	}
	dir, err := platform()
	if err != nil {
		return ""
	}
	return dir
}

// defaultConfig returns a Config with all default values. They are loaded
// first and overridden by the config file and environment.
func defaultConfig() *Config {
	deviceName, err := os.Hostname()
	if err != nil || deviceName == "" {
		deviceName = "finplay"
	}
	cacheDir := filepath.Join(os.TempDir(), "finplay", "images")
	if dir := userDir("XDG_CACHE_HOME", os.UserCacheDir); dir != "" {
		cacheDir = filepath.Join(dir, "finplay", "images")
	}
	storePath := ""
	if dir := userDir("XDG_DATA_HOME", os.UserConfigDir); dir != "" {
		storePath = filepath.Join(dir, "finplay", "accounts")
	}

	return &Config{
		Client: ClientConfig{
			Name:       "Finplay",
			Version:    Version,
			DeviceName: deviceName,
			Timeout:    30 * time.Second,
		},
		Playback: PlaybackConfig{
			ReportInterval: 10 * time.Second,
			SkipForward:    30 * time.Second,
			SkipBackward:   10 * time.Second,
		},
		Images: ImagesConfig{
			CacheDir:   cacheDir,
			Quality:    models.DefaultImageQuality,
			FetchRate:  8,
			FetchBurst: 4,
			IndexSize:  2048,
		},
		Accounts: AccountsConfig{
			StorePath: storePath,
		},
		Breaker: BreakerConfig{
			Enabled:      true,
			MinRequests:  10,
			FailureRatio: 0.6,
			Interval:     time.Minute,
			Timeout:      2 * time.Minute,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// Load loads configuration with Koanf v2 from layered sources:
//  1. Defaults
//  2. Config File: CONFIG_PATH, then DefaultConfigPaths (optional)
//  3. Environment Variables: FINPLAY_SECTION_KEY, e.g. FINPLAY_CLIENT_TIMEOUT
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file. An empty path skips the
// file layer.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sections are the top-level keys environment variables may address.
var sections = []string{"client", "playback", "images", "accounts", "breaker", "notifications", "logging", "metrics"}

// envTransformFunc maps FINPLAY_IMAGES_CACHE_DIR to images.cache_dir.
// Variables outside a known section are ignored.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok && rest != "" {
			return section + "." + rest
		}
	}
	return ""
}
