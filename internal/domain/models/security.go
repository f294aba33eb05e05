package models

import (
	"context"
	"errors"
)

var ErrAlreadyAuthenticated = errors.New("security context already holds a principal")

// SecurityContext holds the principal resolved for a single request.
// It is created empty for every request and populated at most once.
type SecurityContext struct {
	principal *User
}

// NewSecurityContext returns an empty (anonymous) security context.
func NewSecurityContext() *SecurityContext {
	return &SecurityContext{}
}

// Authenticate binds the principal. A second call fails with ErrAlreadyAuthenticated.
func (s *SecurityContext) Authenticate(u *User) error {
	if s.principal != nil {
		return ErrAlreadyAuthenticated
	}
	s.principal = u
	return nil
}

// Principal returns the bound principal or nil for anonymous requests.
func (s *SecurityContext) Principal() *User {
	if s == nil {
		return nil
	}
	return s.principal
}

func (s *SecurityContext) IsAuthenticated() bool {
	return s.Principal() != nil
}

type securityCtxKey struct{}

// WithSecurityContext attaches sc to ctx.
func WithSecurityContext(ctx context.Context, sc *SecurityContext) context.Context {
	return context.WithValue(ctx, securityCtxKey{}, sc)
}

// SecurityContextFrom returns the request security context, or nil if none was attached.
func SecurityContextFrom(ctx context.Context) *SecurityContext {
	sc, _ := ctx.Value(securityCtxKey{}).(*SecurityContext)
	return sc
}

// UserFromContext returns the authenticated user of the request, nil if anonymous.
func UserFromContext(ctx context.Context) *User {
	return SecurityContextFrom(ctx).Principal()
}
