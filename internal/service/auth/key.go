package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

// MinSigningKeyLength is the minimum HS256 secret length in bytes.
const MinSigningKeyLength = 32

var signingMethod = jwt.SigningMethodHS256

// SigningKey is the process-wide HS256 secret shared by the issuer and the validator.
// It is immutable once built and never printed.
type SigningKey struct {
	b []byte
}

// NewSigningKey copies secret into a SigningKey.
func NewSigningKey(secret string) (SigningKey, error) {
	if len(secret) < MinSigningKeyLength {
		return SigningKey{}, fmt.Errorf("%w: need at least %d bytes", ErrWeakSigningKey, MinSigningKeyLength)
	}
	return SigningKey{b: []byte(secret)}, nil
}

func (k SigningKey) bytes() []byte {
	return k.b
}

func (SigningKey) String() string   { return "[REDACTED]" }
func (SigningKey) GoString() string { return "[REDACTED]" }

// Option configures the issuer and validator.
type Option func(*options)

type options struct {
	clock clockwork.Clock
}

// WithClock replaces the wall clock, used to drive expiry in tests.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// claims is the payload of a credential token.
type claims struct {
	jwt.RegisteredClaims
}
