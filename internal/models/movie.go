package models

import "fmt"

// Movie is a watchlist entry. Movies are global and belong to no user.
type Movie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Year  string `json:"year"`
}

var _ Model = (*Movie)(nil)

// NewMovie creates an unsaved [Movie].
func NewMovie(title, year string) *Movie {
	return &Movie{Title: title, Year: year}
}

func (m *Movie) Key() int64 { return m.ID }

func (m *Movie) Validate() error {
	return ValidateMovieInput(m.Title, m.Year)
}

// String renders the movie the way the index page lists it, e.g. "Leon (1994)".
func (m *Movie) String() string {
	return fmt.Sprintf("%s (%s)", m.Title, m.Year)
}
