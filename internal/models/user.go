package models

// User is the single account of the watchlist.
//
// Username and PasswordHash are empty until an administrator is provisioned; the store keeps them NULL.
type User struct {
	ID           int64
	Name         string
	Username     string
	PasswordHash string
}

var _ Model = (*User)(nil)

// NewUser creates an unsaved [User] with only a display name.
func NewUser(name string) *User {
	return &User{Name: name}
}

func (u *User) Key() int64 { return u.ID }

func (u *User) Validate() error {
	if err := ValidateName(u.Name); err != nil {
		return err
	}
	if u.Username != "" {
		return ValidateUsername(u.Username)
	}
	return nil
}

// HasCredentials reports whether the user can log in.
func (u *User) HasCredentials() bool {
	return u.Username != "" && u.PasswordHash != ""
}
