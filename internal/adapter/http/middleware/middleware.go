package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/Temutjin2k/forum-api/internal/domain/models"
	"github.com/Temutjin2k/forum-api/pkg/logger"
)

type (
	TokenValidator interface {
		Validate(token string) (int64, error)
	}

	PrincipalFinder interface {
		FindByID(ctx context.Context, id int64) (*models.User, error)
	}

	Policy interface {
		Authorize(method, path string, sc *models.SecurityContext) error
	}

	Middleware struct {
		tokens        TokenValidator
		users         PrincipalFinder
		policy        Policy
		lookupTimeout time.Duration
		log           logger.Logger
	}
)

// NewMiddleware builds the request pipeline pieces. A zero lookupTimeout leaves
// the principal lookup bound only by the request context.
func NewMiddleware(tokens TokenValidator, users PrincipalFinder, policy Policy, lookupTimeout time.Duration, log logger.Logger) *Middleware {
	return &Middleware{
		tokens:        tokens,
		users:         users,
		policy:        policy,
		lookupTimeout: lookupTimeout,
		log:           log,
	}
}

// Chain wraps h so that mws[0] runs first.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
