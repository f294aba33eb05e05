package auth

import (
	"time"

	"github.com/Temutjin2k/forum-api/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer signs credential tokens for principals that were already verified.
type TokenIssuer struct {
	key    SigningKey
	ttl    time.Duration
	issuer string
	opts   options
}

func NewTokenIssuer(key SigningKey, ttl time.Duration, issuer string, opts ...Option) *TokenIssuer {
	return &TokenIssuer{
		key:    key,
		ttl:    ttl,
		issuer: issuer,
		opts:   buildOptions(opts),
	}
}

// Issue returns a signed token whose subject is the user id.
func (i *TokenIssuer) Issue(user *models.User) (string, error) {
	t, err := i.IssueToken(user)
	if err != nil {
		return "", err
	}
	return t.Token, nil
}

// IssueToken is Issue plus the expiry instant embedded in the token.
func (i *TokenIssuer) IssueToken(user *models.User) (*models.IssuedToken, error) {
	if user == nil || user.ID <= 0 {
		return nil, ErrInvalidPrincipal
	}

	issuedAt := jwt.NewNumericDate(i.opts.clock.Now())
	expiresAt := jwt.NewNumericDate(issuedAt.Add(i.ttl))

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   user.Subject(),
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, c).SignedString(i.key.bytes())
	if err != nil {
		return nil, ErrTokenGenerateFail
	}

	return &models.IssuedToken{
		Token:     signed,
		Type:      models.AuthScheme,
		ExpiresAt: expiresAt.Time,
	}, nil
}
