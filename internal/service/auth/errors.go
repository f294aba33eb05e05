package auth

import "errors"

var (
	ErrMalformedToken     = errors.New("malformed token")
	ErrInvalidSignature   = errors.New("invalid token signature")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidPrincipal   = errors.New("invalid principal")
	ErrWeakSigningKey     = errors.New("signing key is too short")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenGenerateFail  = errors.New("failed to generate token")
)
