package auth

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValidator verifies tokens produced by TokenIssuer. It never touches the datastore.
type TokenValidator struct {
	key  SigningKey
	opts options
}

func NewTokenValidator(key SigningKey, opts ...Option) *TokenValidator {
	return &TokenValidator{
		key:  key,
		opts: buildOptions(opts),
	}
}

// Validate checks, in order, structure, signature and expiry, and returns the subject id.
// Errors are ErrMalformedToken, ErrInvalidSignature or ErrExpiredToken.
// A token is expired from the instant embedded in its exp claim onwards.
func (v *TokenValidator) Validate(token string) (int64, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, v.keyFunc,
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.opts.clock.Now),
	)
	if err != nil {
		return 0, classify(err)
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid subject", ErrMalformedToken)
	}

	return id, nil
}

func (v *TokenValidator) keyFunc(*jwt.Token) (any, error) {
	return v.key.bytes(), nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}
