package models

import "time"

// AuthScheme is the Authorization header scheme tokens are issued for.
const AuthScheme = "Bearer"

// IssuedToken is the result of a successful login.
type IssuedToken struct {
	Token     string
	Type      string
	ExpiresAt time.Time
}
