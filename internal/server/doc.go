// Package server provides HTTP routing and middleware for the watchlist web application.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses a gorilla/mux router internally. Routes match on method and path,
// path variables are read back with [Param], and requests that match a path but not its method are handed to the
// handler registered with [Router.MethodNotAllowed].
//
// # Middleware
//
// [RequestID] tags each request with an id that [Logger] and [Recovery] include in their log entries.
// [RateLimit] applies a per-client sliding window and [Throttle] a shared token bucket, typically around a single
// route such as the login form.
//
// Middleware added with [Router.Use] wraps the whole router, so not-found and method-not-allowed responses are
// logged like any other request.
package server
