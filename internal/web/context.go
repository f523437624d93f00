package web

import (
	"context"
	"net/http"

	"github.com/desertthunder/watchlist/internal/models"
	"github.com/desertthunder/watchlist/internal/repositories"
)

// DefaultOwner is the display name used when no user exists.
const DefaultOwner = "Watchlist"

type contextKey int

const (
	requestKey contextKey = iota
	movieKey
)

// Request is the per-request state resolved once before any handler runs.
type Request struct {
	User  *models.User        // nil when anonymous
	Owner string              // display name for page headers
	Store *repositories.Store // store the handlers read and write through
}

// Authenticated reports whether the session carries a valid user.
func (r *Request) Authenticated() bool {
	return r != nil && r.User != nil
}

// RequestFrom returns the [Request] stored by [App.withRequest].
//
// Requests that never reached the middleware get an anonymous request.
func RequestFrom(ctx context.Context) *Request {
	if req, ok := ctx.Value(requestKey).(*Request); ok {
		return req
	}
	return &Request{Owner: DefaultOwner}
}

// withRequest resolves the session user and display name and stores them on the request context.
func (a *App) withRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.auth.Current(r)
		if err != nil {
			a.fail(w, r, err)
			return
		}

		owner, err := a.owner(r.Context(), user)
		if err != nil {
			a.fail(w, r, err)
			return
		}

		req := &Request{User: user, Owner: owner, Store: a.store}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestKey, req)))
	})
}

// owner picks the display name: the current user, else the sole user, else [DefaultOwner].
func (a *App) owner(ctx context.Context, user *models.User) (string, error) {
	if user == nil {
		first, err := a.store.Users.First(ctx)
		if isNotFound(err) {
			return DefaultOwner, nil
		}
		if err != nil {
			return "", err
		}
		user = first
	}

	if user.Name == "" {
		return DefaultOwner, nil
	}
	return user.Name, nil
}

// movieFrom returns the movie stored by [App.loadMovie].
func movieFrom(ctx context.Context) *models.Movie {
	movie, _ := ctx.Value(movieKey).(*models.Movie)
	return movie
}
