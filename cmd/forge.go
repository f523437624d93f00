package main

import (
	"context"
	"errors"

	"github.com/desertthunder/watchlist/internal/models"
	"github.com/desertthunder/watchlist/internal/repositories"
	"github.com/desertthunder/watchlist/internal/shared"
	"github.com/desertthunder/watchlist/internal/ui"
	"github.com/urfave/cli/v3"
)

const forgeName = "Grey Li"

var forgeMovies = []struct{ title, year string }{
	{"My Neighbor Totoro", "1988"},
	{"Dead Poets Society", "1989"},
	{"A Perfect World", "1993"},
	{"Leon", "1994"},
	{"Mahjong", "1996"},
	{"Swallowtail Butterfly", "1996"},
	{"King of Comedy", "1999"},
	{"Devils on the Doorstep", "1999"},
	{"WALL-E", "2008"},
	{"The Pork of Music", "2012"},
}

// Forge seeds the database with a user and sample movies.
//
// The user is only created when none exists; movies are appended on every run.
func (r *Runner) Forge(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, store, err := r.openStore(config)
	if err != nil {
		return err
	}
	defer db.Close()

	err = store.WithTx(ctx, func(tx *repositories.Store) error {
		_, err := tx.Users.First(ctx)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			if err := tx.Users.Create(ctx, models.NewUser(forgeName)); err != nil {
				return err
			}
			r.logger.Info("created user", "name", forgeName)
		case err != nil:
			return err
		}

		for _, m := range forgeMovies {
			if err := tx.Movies.Create(ctx, models.NewMovie(m.title, m.year)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("generated sample movies", "count", len(forgeMovies))
	return r.writePlain("%s\n", ui.Styles.OK("Done."))
}
