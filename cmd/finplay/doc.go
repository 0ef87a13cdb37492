// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

/*
Command finplay drives the client core from a terminal.

It signs in to a Jellyfin server, browses libraries and plays items on a
headless clock player, so the same code paths a desktop UI uses can be
exercised without one.

Usage:

	finplay [--config FILE] [--verbose] COMMAND [ARGS]

Commands:

	login --server URL --user NAME [--password PW]
	logout
	whoami
	ping [--server URL]
	views
	items [--parent ID] [--type KIND] [--limit N]
	resolve ID
	image ID [--kind Primary] [--width 300]
	trickplay ID [--width 320]
	play ID [--for DURATION]

The password for login is taken from --password, then FINPLAY_PASSWORD,
then the first line of standard input.

# Configuration

Settings come from built-in defaults, a YAML file and FINPLAY_* environment
variables, in increasing priority. The file is --config, CONFIG_PATH, or the
first of finplay.yaml, finplay.yml and $XDG_CONFIG_HOME/finplay/config.yaml.

	FINPLAY_LOGGING_LEVEL=debug finplay views
	FINPLAY_METRICS_LISTEN_ADDR=127.0.0.1:9464 finplay play 4f2a...

# Signals

play stops on SIGINT or SIGTERM and sends the final stopped report before
exiting.
*/
package main
