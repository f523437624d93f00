// Package models defines the watchlist's records, their form validation and the persistence interface.
//
//   - [User] : the sole account, with a display name and login credentials
//   - [Movie] : a watchlist entry with a title and a release year
//
// [ValidateMovieInput] and [ValidateName] are the form validators used by the web handlers.
// They are pure functions; records call them again from Validate before they are written.
//
// The [Repository] interface defines standard CRUD operations for database access.
package models
