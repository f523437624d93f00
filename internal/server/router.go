package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Uses a [mux.Router] internally for routing.
type BasicRouter struct {
	mux         *mux.Router
	middlewares []Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         mux.NewRouter(),
		middlewares: []Middleware{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the specified HTTP method and path.
//
// Paths use gorilla/mux patterns, so "/movie/{id:[0-9]+}" only matches numeric ids.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(path, handler).Methods(method)
}

// NotFound sets the handler used when no route matches the path.
func (r *BasicRouter) NotFound(handler http.Handler) {
	r.mux.NotFoundHandler = handler
}

// MethodNotAllowed sets the handler used when a route matches the path but not the method.
func (r *BasicRouter) MethodNotAllowed(handler http.Handler) {
	r.mux.MethodNotAllowedHandler = handler
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Apply(r.mux).ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// The first middleware added runs outermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	return Chain(handler, r.middlewares...)
}

// Param returns the path variable called name, or "" when the route has none.
func Param(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
