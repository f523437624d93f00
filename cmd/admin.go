package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/watchlist/internal/auth"
	"github.com/desertthunder/watchlist/internal/models"
	"github.com/desertthunder/watchlist/internal/repositories"
	"github.com/desertthunder/watchlist/internal/shared"
	"github.com/desertthunder/watchlist/internal/ui"
	"github.com/urfave/cli/v3"
)

// defaultAdminName is the display name of an administrator created before any user exists.
const defaultAdminName = "Admin"

// Admin creates the administrator account, or updates the credentials of the existing user.
//
// Credentials missing from the flags are prompted for interactively.
func (r *Runner) Admin(ctx context.Context, cmd *cli.Command) error {
	username, password := cmd.String("username"), cmd.String("password")
	if username == "" || password == "" {
		creds, err := r.prompt(ctx, username)
		if err != nil {
			return err
		}
		username, password = creds.Username, creds.Password
	}

	if err := models.ValidateUsername(username); err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	db, store, err := r.openStore(config)
	if err != nil {
		return err
	}
	defer db.Close()

	err = store.WithTx(ctx, func(tx *repositories.Store) error {
		user, err := tx.Users.First(ctx)
		if errors.Is(err, shared.ErrNotFound) {
			r.writePlain("Creating user...\n")
			user = models.NewUser(defaultAdminName)
			user.Username, user.PasswordHash = username, hash
			return tx.Users.Create(ctx, user)
		}
		if err != nil {
			return err
		}

		r.writePlain("Updating user...\n")
		user.Username, user.PasswordHash = username, hash
		return tx.Users.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	r.logger.Info("administrator provisioned", "username", username)
	return r.writePlain("%s\n", ui.Styles.OK("Done."))
}
