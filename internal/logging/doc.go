// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

// Package logging provides the zerolog-based structured logger shared by all
// Finplay packages.
//
// The package keeps one global logger, configured once from main via Init and
// readable from any goroutine. Components derive child loggers with
// WithComponent, and request-scoped code uses Ctx to pick up the correlation
// ID carried by a context.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Str("item", id).Msg("Playback started")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Progress report failed")
//
// Always terminate event chains with Msg or Send; an unterminated event is
// never written.
//
// NewSlogLogger bridges the logger to log/slog for libraries (sutureslog)
// that only accept a *slog.Logger.
package logging
