package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Temutjin2k/forum-api/internal/domain/models"
	"github.com/Temutjin2k/forum-api/internal/domain/types"
	"github.com/Temutjin2k/forum-api/internal/service/auth"
	"github.com/Temutjin2k/forum-api/internal/service/authz"
	wrap "github.com/Temutjin2k/forum-api/pkg/logger/wrapper"
	"github.com/Temutjin2k/forum-api/pkg/metrics"
)

// Auth is the authentication gate. Every request gets a fresh security context;
// a valid token whose subject still exists binds that user as principal.
// The gate never rejects: any failure leaves the request anonymous and the
// policy decides later whether the route needs a principal.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc := models.NewSecurityContext()
		ctx := models.WithSecurityContext(r.Context(), sc)

		ctx = m.authenticate(ctx, sc, r.Header.Get("Authorization"))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate returns ctx enriched with the user id when a principal was bound.
func (m *Middleware) authenticate(ctx context.Context, sc *models.SecurityContext, header string) (out context.Context) {
	out = ctx
	logCtx := wrap.WithAction(ctx, types.ActionAuthenticate)

	defer func() {
		if p := recover(); p != nil {
			metrics.RecordAuthentication(metrics.AuthPanic)
			m.log.Error(logCtx, "panic while authenticating request", fmt.Errorf("%v", p))
			out = ctx
		}
	}()

	if header == "" {
		metrics.RecordAuthentication(metrics.AuthAnonymous)
		return ctx
	}

	id, err := m.tokens.Validate(extractToken(header))
	if err != nil {
		outcome := validationOutcome(err)
		metrics.RecordAuthentication(outcome)
		if errors.Is(err, auth.ErrInvalidSignature) {
			m.log.Warn(logCtx, "token signature rejected")
		} else {
			m.log.Debug(logCtx, "token rejected", "reason", outcome)
		}
		return ctx
	}

	user, err := m.lookup(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			metrics.RecordAuthentication(metrics.AuthPrincipalNotFound)
			m.log.Debug(logCtx, "token subject does not exist", "subject", id)
		} else {
			metrics.RecordAuthentication(metrics.AuthLookupFailed)
			m.log.Warn(logCtx, "failed to load token subject", "subject", id, "error", err.Error())
		}
		return ctx
	}

	if err := sc.Authenticate(user); err != nil {
		m.log.Error(logCtx, "failed to bind principal", err)
		return ctx
	}
	metrics.RecordAuthentication(metrics.AuthAuthenticated)

	return wrap.WithUserID(ctx, user.Subject())
}

func (m *Middleware) lookup(ctx context.Context, id int64) (*models.User, error) {
	if m.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.lookupTimeout)
		defer cancel()
	}

	user, err := m.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, types.ErrUserNotFound
	}
	return user, nil
}

// Authorize applies the route policy to the security context bound by Auth.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		err := m.policy.Authorize(r.Method, r.URL.Path, models.SecurityContextFrom(ctx))
		if err == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx = wrap.WithAction(ctx, types.ActionAuthorize)
		if errors.Is(err, authz.ErrForbidden) {
			metrics.RecordAuthorizationDenial(r.Method, "forbidden")
			m.log.Debug(ctx, "request forbidden", "method", r.Method, "path", r.URL.Path)
			errorResponse(w, http.StatusForbidden, err.Error())
			return
		}

		metrics.RecordAuthorizationDenial(r.Method, "unauthenticated")
		m.log.Debug(ctx, "request requires authentication", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("WWW-Authenticate", models.AuthScheme)
		errorResponse(w, http.StatusUnauthorized, err.Error())
	})
}

// extractToken strips the Bearer scheme, matched case-insensitively.
// A header without a scheme is taken as the bare token.
func extractToken(header string) string {
	header = strings.TrimSpace(header)
	scheme, rest, found := strings.Cut(header, " ")
	if found && strings.EqualFold(scheme, models.AuthScheme) {
		return strings.TrimSpace(rest)
	}
	return header
}

func validationOutcome(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return metrics.AuthExpired
	case errors.Is(err, auth.ErrInvalidSignature):
		return metrics.AuthInvalidSignature
	default:
		return metrics.AuthMalformed
	}
}
