// Package web implements the server-rendered watchlist application.
//
// # Routes
//
// The route table in [App.routes] is the whole HTTP surface:
//
//	GET  /                   → movie list, with an add form when logged in
//	POST /                   → add a movie (login required)
//	GET  /movie/edit/{id}    → edit form (login required)
//	POST /movie/edit/{id}    → update a movie (login required)
//	POST /movie/delete/{id}  → delete a movie (login required)
//	GET  /settings           → settings form (login required)
//	POST /settings           → change the display name (login required)
//	GET  /login              → login form
//	POST /login              → authenticate (throttled)
//	GET  /logout             → end the session (login required)
//
// # Request Context
//
// A middleware resolves the session to a [Request] once per request: the current user, loaded fresh from the
// store, the display name shown in page headers, and the [repositories.Store] handlers run against. Handlers
// and templates read it with [RequestFrom] instead of looking the user up again.
//
// # Guards
//
// Guards are [server.Middleware] values listed per route. Movie routes resolve the movie before checking the
// session, so an unknown id is a 404 for everyone, and no handler runs its mutation before [App.requireLogin]
// has admitted the caller.
//
// # Redirect-after-POST
//
// Every form submission answers 303 See Other. Outcomes are reported with flash messages that the next
// rendered page pops from the session.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/watchlist/internal/auth"
	"github.com/desertthunder/watchlist/internal/repositories"
	"github.com/desertthunder/watchlist/internal/server"
	"github.com/desertthunder/watchlist/internal/shared"
	"golang.org/x/time/rate"
)

// Options configures an [App].
type Options struct {
	Store  *repositories.Store
	Auth   *auth.Manager
	Logger *log.Logger

	// RateLimit is the number of requests a client IP may make per minute. Zero disables the limit.
	RateLimit int
	// LoginRate is the number of login attempts accepted per minute across all clients. Zero disables the throttle.
	LoginRate int
}

// App holds the dependencies of the web application.
type App struct {
	store     *repositories.Store
	auth      *auth.Manager
	logger    *log.Logger
	templates *templates
	rateLimit int
	login     *rate.Limiter
}

type route struct {
	method  string
	path    string
	handler http.Handler
	guards  []server.Middleware
}

// New creates an [App], parsing the embedded templates.
func New(opts Options) (*App, error) {
	if opts.Store == nil || opts.Auth == nil {
		return nil, fmt.Errorf("%w: web app needs a store and a session manager", shared.ErrMissingArgument)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &App{
		store:     opts.Store,
		auth:      opts.Auth,
		logger:    opts.Logger,
		templates: tmpl,
		rateLimit: opts.RateLimit,
		login:     server.PerMinute(opts.LoginRate),
	}, nil
}

func (a *App) routes() []route {
	return []route{
		{http.MethodGet, "/", a.handle(a.index), nil},
		{http.MethodPost, "/", a.handle(a.createMovie), nil},
		{http.MethodGet, "/movie/edit/{id:[0-9]+}", a.handle(a.editMovie), []server.Middleware{a.loadMovie, a.requireLogin}},
		{http.MethodPost, "/movie/edit/{id:[0-9]+}", a.handle(a.updateMovie), []server.Middleware{a.loadMovie, a.requireLogin}},
		{http.MethodPost, "/movie/delete/{id:[0-9]+}", a.handle(a.deleteMovie), []server.Middleware{a.loadMovie, a.requireLogin}},
		{http.MethodGet, "/settings", a.handle(a.settings), []server.Middleware{a.requireLogin}},
		{http.MethodPost, "/settings", a.handle(a.updateSettings), []server.Middleware{a.requireLogin}},
		{http.MethodGet, "/login", a.handle(a.loginForm), nil},
		{http.MethodPost, "/login", a.handle(a.loginSubmit), []server.Middleware{server.Throttle(a.login, a.statusPage(http.StatusTooManyRequests))}},
		{http.MethodGet, "/logout", a.handle(a.logout), []server.Middleware{a.requireLogin}},
	}
}

// Handler builds the application's [http.Handler] on a [server.BasicRouter].
func (a *App) Handler() http.Handler {
	router := server.NewBasicRouter()
	a.Register(router)
	return router
}

// Register adds the middleware stack, routes and error handlers to router.
func (a *App) Register(router server.Router) {
	router.Use(
		server.RequestID,
		server.Logger(a.logger),
		server.Recovery(a.logger, a.recovered),
		server.RateLimit(a.rateLimit, time.Minute, a.statusPage(http.StatusTooManyRequests)),
		a.withRequest,
	)

	for _, rt := range a.routes() {
		router.Handle(rt.method, rt.path, server.Chain(rt.handler, rt.guards...))
	}

	router.NotFound(a.statusPage(http.StatusNotFound))
	router.MethodNotAllowed(a.statusPage(http.StatusMethodNotAllowed))
}

// appHandler is a handler whose error is rendered by [App.fail].
type appHandler func(w http.ResponseWriter, r *http.Request) error

func (a *App) handle(fn appHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			a.fail(w, r, err)
		}
	})
}

// redirect answers a form submission with 303 See Other.
func redirect(w http.ResponseWriter, r *http.Request, path string) error {
	http.Redirect(w, r, path, http.StatusSeeOther)
	return nil
}

// flashRedirect queues message and redirects to path.
func (a *App) flashRedirect(w http.ResponseWriter, r *http.Request, message, path string) error {
	if err := a.auth.Flash(w, r, message); err != nil {
		return err
	}
	return redirect(w, r, path)
}

// maxFormBytes bounds the body read by [parseForm].
const maxFormBytes = 1 << 20

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
