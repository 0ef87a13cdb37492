// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/tomtom215/finplay/internal/app"
	"github.com/tomtom215/finplay/internal/config"
	"github.com/tomtom215/finplay/internal/logging"
)

// command is one subcommand. run receives the arguments after the
// subcommand name and writes results to out.
type command struct {
	usage string
	help  string
	run   func(ctx context.Context, a *app.App, args []string, out io.Writer) error
}

var commands = map[string]command{
	"login":     {"login --server URL --user NAME [--password PW]", "sign in and remember the account", runLogin},
	"logout":    {"logout", "sign out and forget the account", runLogout},
	"whoami":    {"whoami", "show the signed-in account", runWhoami},
	"ping":      {"ping [--server URL]", "check that a server is reachable", runPing},
	"views":     {"views", "list the user's libraries", runViews},
	"items":     {"items [--parent ID] [--type KIND] [--limit N]", "list items in a library", runItems},
	"resolve":   {"resolve ID", "show what playing an item would start", runResolve},
	"image":     {"image ID [--kind Primary] [--width 300]", "download an image into the cache", runImage},
	"trickplay": {"trickplay ID [--width 320]", "list seek thumbnails of an item", runTrickplay},
	"play":      {"play ID [--for DURATION]", "play an item on a headless clock and report progress", runPlay},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("finplay", flag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)
	configPath := global.StringP("config", "c", "", "config file (default: search "+config.ConfigPathEnvVar+" and standard locations)")
	verbose := global.BoolP("verbose", "v", false, "debug logging")
	global.Usage = func() { usage(stderr, global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if global.NArg() == 0 {
		usage(stderr, global)
		return 2
	}
	name := global.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "finplay: unknown command %q\n", name)
		usage(stderr, global)
		return 2
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "finplay: %v\n", err)
		return 1
	}

	logCfg := cfg.Logging.LoggingConfig()
	logCfg.Output = stderr
	if *verbose {
		logCfg.Level = "debug"
	}
	logging.Init(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithNewCorrelationID(ctx)

	a, err := app.New(cfg)
	if err != nil {
		logging.Err(err).Msg("Failed to start")
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			logging.Err(err).Msg("Error closing application")
		}
	}()

	if err := cmd.run(ctx, a, global.Args()[1:], stdout); err != nil {
		_, _ = fmt.Fprintf(stderr, "finplay %s: %v\n", name, err)
		return 1
	}
	return 0
}

func usage(w io.Writer, global *flag.FlagSet) {
	_, _ = fmt.Fprintln(w, "usage: finplay [--config FILE] [--verbose] COMMAND [ARGS]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %-48s %s\n", commands[name].usage, commands[name].help)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Flags:")
	_, _ = fmt.Fprint(w, global.FlagUsages())
}
