package main

import (
	"context"
	"errors"

	"github.com/desertthunder/watchlist/internal/formatter"
	"github.com/desertthunder/watchlist/internal/repositories"
	"github.com/desertthunder/watchlist/internal/shared"
	"github.com/desertthunder/watchlist/internal/ui"
	"github.com/urfave/cli/v3"
)

// loadWatchlist reads the owner's display name and every movie.
func loadWatchlist(ctx context.Context, store *repositories.Store) (formatter.Watchlist, error) {
	var w formatter.Watchlist

	user, err := store.Users.First(ctx)
	switch {
	case err == nil:
		w.Owner = user.Name
	case !errors.Is(err, shared.ErrNotFound):
		return w, err
	}

	movies, err := store.Movies.List(ctx)
	if err != nil {
		return w, err
	}
	w.Movies = movies
	return w, nil
}

// MoviesList prints the watchlist.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, store, err := r.openStore(config)
	if err != nil {
		return err
	}
	defer db.Close()

	w, err := loadWatchlist(ctx, store)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(w.Movies, true)
	}

	data, err := formatter.ExportToText(w)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// MoviesExport writes the watchlist to a file in the requested format.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, store, err := r.openStore(config)
	if err != nil {
		return err
	}
	defer db.Close()

	w, err := loadWatchlist(ctx, store)
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(w, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("exported watchlist", "format", format, "path", path)
	r.writePlainHeader("Watchlist exported")
	return r.writePlain("%s %d movies to %s\n", ui.Styles.OK("✓"), len(w.Movies), path)
}
