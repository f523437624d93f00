package models

import (
	"fmt"
	"unicode/utf8"

	"github.com/desertthunder/watchlist/internal/shared"
)

// Column limits, counted in characters.
const (
	MaxTitleLen    = 60
	MaxYearLen     = 4
	MaxNameLen     = 20
	MaxUsernameLen = 128
)

// ValidateMovieInput checks the add and edit movie forms.
//
// Year is not checked for digits: any value of up to four characters is accepted.
func ValidateMovieInput(title, year string) error {
	switch {
	case title == "":
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	case year == "":
		return fmt.Errorf("%w: year is required", shared.ErrInvalidInput)
	case utf8.RuneCountInString(title) > MaxTitleLen:
		return fmt.Errorf("%w: title is longer than %d characters", shared.ErrInvalidInput, MaxTitleLen)
	case utf8.RuneCountInString(year) > MaxYearLen:
		return fmt.Errorf("%w: year is longer than %d characters", shared.ErrInvalidInput, MaxYearLen)
	}
	return nil
}

// ValidateName checks the settings form.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", shared.ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return fmt.Errorf("%w: name is longer than %d characters", shared.ErrInvalidInput, MaxNameLen)
	}
	return nil
}

// ValidateUsername checks an administrator username.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", shared.ErrInvalidInput)
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return fmt.Errorf("%w: username is longer than %d characters", shared.ErrInvalidInput, MaxUsernameLen)
	}
	return nil
}
