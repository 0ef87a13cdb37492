// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/tomtom215/finplay/internal/app"
	"github.com/tomtom215/finplay/internal/client"
	"github.com/tomtom215/finplay/internal/logging"
	"github.com/tomtom215/finplay/internal/models"
)

// PasswordEnvVar supplies the login password without a prompt.
const PasswordEnvVar = "FINPLAY_PASSWORD"

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// oneID parses fs and requires exactly one positional item id.
func oneID(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", errors.New("expected one item id")
	}
	return fs.Arg(0), nil
}

func runLogin(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("login")
	server := fs.StringP("server", "s", "", "server URL")
	user := fs.StringP("user", "u", "", "user name")
	password := fs.StringP("password", "p", "", "password (default: $"+PasswordEnvVar+" or stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *server == "" || *user == "" {
		return errors.New("--server and --user are required")
	}

	pw := *password
	if pw == "" {
		pw = os.Getenv(PasswordEnvVar)
	}
	if pw == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		pw = strings.TrimRight(line, "\r\n")
	}

	account, err := a.SignIn(ctx, *server, *user, pw)
	if err != nil {
		logging.Debug().Err(err).Msg("Sign-in failed")
		return errors.New(app.SignInMessage(err))
	}
	_, _ = fmt.Fprintf(out, "Signed in to %s as %s\n", serverLabel(account), account.UserName)
	return nil
}

func runLogout(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	account := a.Account()
	if err := a.SignOut(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Signed out %s\n", account.UserName)
	return nil
}

func runWhoami(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	account := a.Account()
	if account == nil {
		return client.ErrNotSignedIn
	}
	_, _ = fmt.Fprintf(out, "%s on %s (%s)\n", account.UserName, serverLabel(account), account.ServerURL)

	others, err := a.Accounts().List(ctx)
	if err != nil {
		return err
	}
	for _, other := range others {
		if other.Key() != account.Key() {
			_, _ = fmt.Fprintf(out, "  also: %s on %s\n", other.UserName, serverLabel(other))
		}
	}
	return nil
}

func runPing(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("ping")
	server := fs.StringP("server", "s", "", "server URL (default: signed-in server)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var api client.API
	if *server != "" {
		c, err := client.New(client.Options{
			ServerURL:  *server,
			ClientName: a.Config().Client.Name,
			Version:    a.Config().Client.Version,
			DeviceName: a.Config().Client.DeviceName,
			DeviceID:   a.DeviceID(),
			Timeout:    a.Config().Client.Timeout,
		}, nil)
		if err != nil {
			return err
		}
		api = c
	} else {
		var err error
		if api, err = a.API(); err != nil {
			return err
		}
	}

	start := time.Now()
	info, err := api.PublicInfo(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s (Jellyfin %s) answered in %v\n", info.ServerName, info.Version, time.Since(start).Round(time.Millisecond))
	return nil
}

func runViews(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	api, err := a.API()
	if err != nil {
		return err
	}
	views, err := api.Views(ctx)
	if err != nil {
		return err
	}
	for _, v := range views.Items {
		_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", v.ID, v.CollectionType, v.Name)
	}
	return nil
}

func runItems(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("items")
	parent := fs.String("parent", "", "library or folder id")
	kinds := fs.StringSlice("type", nil, "item types, e.g. Movie,Series")
	limit := fs.Int("limit", 0, "stop after this many items (0 for all)")
	pageSize := fs.Int("page-size", 100, "items per request")
	if err := fs.Parse(args); err != nil {
		return err
	}

	api, err := a.API()
	if err != nil {
		return err
	}

	q := models.ItemQuery{ParentID: *parent, Recursive: len(*kinds) > 0, SortBy: []string{"SortName"}}
	for _, k := range *kinds {
		q.IncludeItemTypes = append(q.IncludeItemTypes, models.ItemKind(k))
	}

	pager := client.NewPager(api, q, *pageSize)
	printed := 0
	for !pager.Done() {
		items, err := pager.Next(ctx)
		if err != nil {
			return err
		}
		for _, item := range items {
			_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", item.ID, item.Type, displayName(item))
			printed++
			if *limit > 0 && printed >= *limit {
				return nil
			}
		}
		loaded, total := pager.Progress()
		logging.Debug().Int("loaded", loaded).Int("total", total).Msg("Loaded page")
	}
	return nil
}

func runResolve(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	id, err := oneID(newFlagSet("resolve"), args)
	if err != nil {
		return err
	}
	item, err := lookupItem(ctx, a, id)
	if err != nil {
		return err
	}
	resolved, err := a.Resolver().Resolve(ctx, *item)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s\t%s\t%s\tresume at %v\n", resolved.ID, resolved.Type, displayName(resolved),
		models.TicksToDuration(resolved.ResumeTicks()))
	return nil
}

func runImage(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("image")
	kind := fs.String("kind", string(models.ImagePrimary), "image kind: Primary, Backdrop, Thumb, Logo or Banner")
	width := fs.Int("width", 300, "maximum width")
	id, err := oneID(fs, args)
	if err != nil {
		return err
	}

	images, err := a.Images()
	if err != nil {
		return err
	}
	path, err := images.Fetch(ctx, models.ImageReference{
		ItemID:  id,
		Kind:    models.ImageKind(*kind),
		Variant: models.MaxWidth,
		Size:    *width,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, path)
	return nil
}

func runTrickplay(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("trickplay")
	width := fs.Int("width", 320, "preferred thumbnail width")
	id, err := oneID(fs, args)
	if err != nil {
		return err
	}

	frames, err := a.TrickplayFrames(ctx, id, *width)
	if err != nil {
		return err
	}
	for _, f := range frames {
		_, _ = fmt.Fprintf(out, "%v\t%d bytes\n", f.Timestamp, len(f.Image))
	}
	return nil
}

func runPlay(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("play")
	limit := fs.Duration("for", 0, "stop after this long (default: until the end or Ctrl-C)")
	id, err := oneID(fs, args)
	if err != nil {
		return err
	}

	item, err := lookupItem(ctx, a, id)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	runErr := make(chan error, 1)
	go func() { runErr <- a.Run(runCtx) }()
	defer func() {
		cancel()
		if err := <-runErr; err != nil {
			logging.Warn().Err(err).Msg("Supervisor stopped with error")
		}
	}()

	player := newClockPlayer()
	pb, err := a.Play(ctx, *item, player)
	if err != nil {
		return err
	}
	_ = player.Seek(models.TicksToDuration(pb.Item.ResumeTicks()))
	_, _ = fmt.Fprintf(out, "Playing %s\n%s\n", displayName(pb.Item), pb.StreamURL)

	remaining := models.TicksToDuration(pb.Item.RunTimeTicks) - player.Position()
	if *limit > 0 && (*limit < remaining || remaining <= 0) {
		remaining = *limit
	}
	var end <-chan time.Time
	if remaining > 0 {
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		end = timer.C
	}

	select {
	case <-ctx.Done():
	case <-end:
	case <-pb.Reporter.Done():
	}
	// The interrupt context is done here; the stopped report needs its own.
	a.StopPlayback(context.WithoutCancel(ctx))
	_, _ = fmt.Fprintf(out, "Stopped at %v\n", player.Position().Round(time.Second))
	return nil
}

func lookupItem(ctx context.Context, a *app.App, id string) (*models.MediaItem, error) {
	api, err := a.API()
	if err != nil {
		return nil, err
	}
	return api.Item(ctx, id)
}

func displayName(item models.MediaItem) string {
	if item.Type == models.KindEpisode && item.SeriesName != "" {
		return fmt.Sprintf("%s S%02dE%02d %s", item.SeriesName, item.SeasonIndex(), item.EpisodeIndex(), item.Name)
	}
	return item.Name
}

func serverLabel(account *models.Account) string {
	if account.ServerName != "" {
		return account.ServerName
	}
	return account.ServerURL
}
