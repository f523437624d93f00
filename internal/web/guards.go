package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/desertthunder/watchlist/internal/server"
	"github.com/desertthunder/watchlist/internal/shared"
)

const (
	msgLoginRequired = "Please log in to access this page."
	msgLoginToAdd    = "Please log in before adding movies."
)

// requireLogin redirects anonymous callers to the login form.
func (a *App) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RequestFrom(r.Context()).Authenticated() {
			next.ServeHTTP(w, r)
			return
		}

		if err := a.flashRedirect(w, r, msgLoginRequired, "/login"); err != nil {
			a.fail(w, r, err)
		}
	})
}

// loadMovie resolves the {id} path variable to a movie, answering 404 when it does not exist.
func (a *App) loadMovie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(server.Param(r, "id"), 10, 64)
		if err != nil {
			a.fail(w, r, fmt.Errorf("%w: movie id %q", shared.ErrInvalidArgument, server.Param(r, "id")))
			return
		}

		movie, err := RequestFrom(r.Context()).Store.Movies.Get(r.Context(), id)
		if err != nil {
			a.fail(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), movieKey, movie)))
	})
}
