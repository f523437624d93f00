// Package auth implements password hashing and cookie-session authentication for the single watchlist user.
//
// A [Manager] reads the signed session cookie once per request and resolves it to either
// Anonymous (nil user) or Authenticated (the user loaded fresh from the store). Login checks the
// submitted username and password against the sole user and never reveals which of the two was
// wrong. The same session carries one-time flash messages.
package auth
