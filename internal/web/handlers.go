package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/watchlist/internal/models"
	"github.com/desertthunder/watchlist/internal/repositories"
	"github.com/desertthunder/watchlist/internal/shared"
)

const (
	msgInvalidInput       = "Invalid input."
	msgMovieCreated       = "Item created."
	msgMovieUpdated       = "Item updated."
	msgMovieDeleted       = "Item deleted."
	msgSettingsUpdated    = "Settings updated."
	msgLoginSuccess       = "Login success."
	msgInvalidCredentials = "Invalid username or password."
	msgNoAdmin            = "No administrator account is configured yet."
	msgGoodbye            = "Goodbye."
)

func (a *App) index(w http.ResponseWriter, r *http.Request) error {
	movies, err := RequestFrom(r.Context()).Store.Movies.List(r.Context())
	if err != nil {
		return err
	}
	return a.render(w, r, http.StatusOK, "index.html", page{Movies: movies})
}

// createMovie checks the session itself because GET / is public.
func (a *App) createMovie(w http.ResponseWriter, r *http.Request) error {
	req := RequestFrom(r.Context())
	if !req.Authenticated() {
		return a.flashRedirect(w, r, msgLoginToAdd, "/")
	}

	if err := parseForm(w, r); err != nil {
		return err
	}

	title, year := r.PostFormValue("title"), r.PostFormValue("year")
	if err := models.ValidateMovieInput(title, year); err != nil {
		return a.flashRedirect(w, r, msgInvalidInput, "/")
	}

	err := req.Store.WithTx(r.Context(), func(tx *repositories.Store) error {
		return tx.Movies.Create(r.Context(), models.NewMovie(title, year))
	})
	if err != nil {
		return err
	}

	return a.flashRedirect(w, r, msgMovieCreated, "/")
}

func (a *App) editMovie(w http.ResponseWriter, r *http.Request) error {
	return a.render(w, r, http.StatusOK, "edit.html", page{Movie: movieFrom(r.Context())})
}

func (a *App) updateMovie(w http.ResponseWriter, r *http.Request) error {
	movie := movieFrom(r.Context())

	if err := parseForm(w, r); err != nil {
		return err
	}

	title, year := r.PostFormValue("title"), r.PostFormValue("year")
	if err := models.ValidateMovieInput(title, year); err != nil {
		return a.flashRedirect(w, r, msgInvalidInput, fmt.Sprintf("/movie/edit/%d", movie.ID))
	}

	updated := &models.Movie{ID: movie.ID, Title: title, Year: year}
	err := RequestFrom(r.Context()).Store.WithTx(r.Context(), func(tx *repositories.Store) error {
		return tx.Movies.Update(r.Context(), updated)
	})
	if err != nil {
		return err
	}

	return a.flashRedirect(w, r, msgMovieUpdated, "/")
}

func (a *App) deleteMovie(w http.ResponseWriter, r *http.Request) error {
	movie := movieFrom(r.Context())

	err := RequestFrom(r.Context()).Store.WithTx(r.Context(), func(tx *repositories.Store) error {
		return tx.Movies.Delete(r.Context(), movie.ID)
	})
	if err != nil {
		return err
	}

	return a.flashRedirect(w, r, msgMovieDeleted, "/")
}

func (a *App) settings(w http.ResponseWriter, r *http.Request) error {
	return a.render(w, r, http.StatusOK, "settings.html", page{})
}

func (a *App) updateSettings(w http.ResponseWriter, r *http.Request) error {
	if err := parseForm(w, r); err != nil {
		return err
	}

	name := r.PostFormValue("name")
	if err := models.ValidateName(name); err != nil {
		return a.flashRedirect(w, r, msgInvalidInput, "/settings")
	}

	err := RequestFrom(r.Context()).Store.WithTx(r.Context(), func(tx *repositories.Store) error {
		user, err := tx.Users.First(r.Context())
		if err != nil {
			return err
		}
		user.Name = name
		return tx.Users.Update(r.Context(), user)
	})
	if err != nil {
		return err
	}

	return a.flashRedirect(w, r, msgSettingsUpdated, "/")
}

func (a *App) loginForm(w http.ResponseWriter, r *http.Request) error {
	return a.render(w, r, http.StatusOK, "login.html", page{})
}

func (a *App) loginSubmit(w http.ResponseWriter, r *http.Request) error {
	if err := parseForm(w, r); err != nil {
		return err
	}

	username, password := r.PostFormValue("username"), r.PostFormValue("password")
	if username == "" || password == "" {
		return a.flashRedirect(w, r, msgInvalidInput, "/login")
	}

	user, err := a.auth.Login(w, r, username, password, msgLoginSuccess)
	switch {
	case errors.Is(err, shared.ErrNoAdmin):
		return a.flashRedirect(w, r, msgNoAdmin, "/login")
	case errors.Is(err, shared.ErrInvalidCredentials):
		a.logger.Warn("failed login", "remote", r.RemoteAddr)
		return a.flashRedirect(w, r, msgInvalidCredentials, "/login")
	case err != nil:
		return err
	}

	a.logger.Info("login", "user_id", user.ID)
	return redirect(w, r, "/")
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) error {
	if err := a.auth.Logout(w, r, msgGoodbye); err != nil {
		return err
	}
	return redirect(w, r, "/")
}
