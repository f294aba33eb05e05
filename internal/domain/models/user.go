package models

import (
	"strconv"
	"time"
)

// User is the account a credential token is issued for.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	password  string    `json:"-"`
	Profiles  []string  `json:"profiles,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GetPassword returns the stored password hash. Only the login flow reads it.
func (u *User) GetPassword() string {
	return u.password
}

func (u *User) SetPassword(password string) {
	u.password = password
}

// Subject is the value stored in the token "sub" claim.
func (u *User) Subject() string {
	return strconv.FormatInt(u.ID, 10)
}

// HasProfile reports whether the user holds the given profile (role).
func (u *User) HasProfile(profile string) bool {
	for _, p := range u.Profiles {
		if p == profile {
			return true
		}
	}
	return false
}
