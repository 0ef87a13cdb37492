// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

/*
Package config loads Finplay configuration with Koanf v2.

Sources, lowest priority first:

 1. Built-in defaults
 2. A YAML file: $CONFIG_PATH, ./finplay.yaml, ./finplay.yml, then
    $XDG_CONFIG_HOME/finplay/config.yaml
 3. Environment variables named FINPLAY_<SECTION>_<KEY>

Example file:

	client:
	  device_name: living-room
	  timeout: 20s
	playback:
	  report_interval: 5s
	images:
	  quality: 90
	logging:
	  level: debug

The same settings from the environment:

	FINPLAY_CLIENT_DEVICE_NAME=living-room
	FINPLAY_PLAYBACK_REPORT_INTERVAL=5s
	FINPLAY_LOGGING_LEVEL=debug

Values are validated with go-playground/validator after loading. Errors
name the offending key, e.g. "images.quality must be at most 100".
*/
package config
