package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Temutjin2k/forum-api/internal/domain/models"
	"github.com/Temutjin2k/forum-api/internal/domain/types"
	"github.com/Temutjin2k/forum-api/internal/service/auth"
	"github.com/Temutjin2k/forum-api/internal/service/authz"
	"github.com/Temutjin2k/forum-api/pkg/logger"
	wrap "github.com/Temutjin2k/forum-api/pkg/logger/wrapper"
	"github.com/Temutjin2k/forum-api/pkg/metrics"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret-0123456789"

var t0 = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeUsers struct {
	mu          sync.Mutex
	users       map[int64]*models.User
	err         error
	panics      bool
	calls       int
	hadDeadline bool
}

func (f *fakeUsers) FindByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	_, f.hadDeadline = ctx.Deadline()
	if f.panics {
		panic("store exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return u, nil
}

// recordingHandler counts calls and remembers the principal it saw.
type recordingHandler struct {
	calls     int
	principal *models.User
	hadSC     bool
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls++
	sc := models.SecurityContextFrom(r.Context())
	h.hadSC = sc != nil
	h.principal = sc.Principal()
	w.WriteHeader(http.StatusOK)
}

type fixture struct {
	clock  clockwork.FakeClock
	issuer *auth.TokenIssuer
	users  *fakeUsers
	m      *Middleware
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key, err := auth.NewSigningKey(testSecret)
	require.NoError(t, err)

	fc := clockwork.NewFakeClockAt(t0)
	users := &fakeUsers{users: map[int64]*models.User{
		7: {ID: 7, Name: "Ana", Email: "ana@forum.dev"},
	}}

	return &fixture{
		clock:  fc,
		issuer: auth.NewTokenIssuer(key, 2*time.Hour, "forum-api", auth.WithClock(fc)),
		users:  users,
		m: NewMiddleware(
			auth.NewTokenValidator(key, auth.WithClock(fc)),
			users,
			authz.NewDefaultTable(),
			time.Second,
			logger.New(io.Discard, "test", logger.LevelDebug),
		),
	}
}

func (f *fixture) token(t *testing.T, id int64) string {
	t.Helper()
	token, err := f.issuer.Issue(&models.User{ID: id})
	require.NoError(t, err)
	return token
}

func (f *fixture) serve(h http.Handler, method, target, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	Chain(h, f.m.Auth, f.m.Authorize).ServeHTTP(rec, req)
	return rec
}

func TestGate_TokenLifetime(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, 7)

	steps := []struct {
		name    string
		advance time.Duration
		status  int
		calls   int
	}{
		{"at issue time", 0, http.StatusOK, 1},
		{"one hour later", time.Hour, http.StatusOK, 1},
		{"after expiry", 2 * time.Hour, http.StatusUnauthorized, 0},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			f.clock.Advance(step.advance)
			h := &recordingHandler{}

			rec := f.serve(h, http.MethodPost, "/topicos", "Bearer "+token)

			assert.Equal(t, step.status, rec.Code)
			assert.Equal(t, step.calls, h.calls)
			if step.calls == 1 {
				require.NotNil(t, h.principal)
				assert.Equal(t, int64(7), h.principal.ID)
			} else {
				assert.Equal(t, models.AuthScheme, rec.Header().Get("WWW-Authenticate"))
				assert.Contains(t, rec.Body.String(), authz.ErrUnauthenticated.Error())
			}
		})
	}
}

func TestGate_MissingHeader(t *testing.T) {
	f := newFixture(t)

	h := &recordingHandler{}
	rec := f.serve(h, http.MethodGet, "/topicos/5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, h.calls)
	assert.True(t, h.hadSC)
	assert.Nil(t, h.principal)
	assert.Zero(t, f.users.calls)

	h = &recordingHandler{}
	rec = f.serve(h, http.MethodPost, "/topicos", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, h.calls)
}

func TestGate_RejectedTokensAreAnonymous(t *testing.T) {
	f := newFixture(t)
	valid := f.token(t, 7)

	otherKey, err := auth.NewSigningKey("another-secret-of-sufficient-size!!")
	require.NoError(t, err)
	forged, err := auth.NewTokenIssuer(otherKey, time.Hour, "forum-api", auth.WithClock(f.clock)).Issue(&models.User{ID: 7})
	require.NoError(t, err)

	expired, err := auth.NewTokenIssuer(mustKey(t), time.Minute, "forum-api",
		auth.WithClock(clockwork.NewFakeClockAt(t0.Add(-time.Hour)))).Issue(&models.User{ID: 7})
	require.NoError(t, err)

	tampered := valid[:len(valid)-3] + flip(valid[len(valid)-3:])

	headers := map[string]string{
		"garbage":         "Bearer not-a-token",
		"empty bearer":    "Bearer ",
		"wrong scheme":    "Basic " + valid,
		"forged":          "Bearer " + forged,
		"expired":         "Bearer " + expired,
		"tampered":        "Bearer " + tampered,
		"two dots only":   "Bearer ..",
		"payload removed": "Bearer " + strings.Split(valid, ".")[0] + "..sig",
	}

	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			h := &recordingHandler{}
			rec := f.serve(h, http.MethodGet, "/topicos/5", header)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, 1, h.calls)
			assert.Nil(t, h.principal)

			h = &recordingHandler{}
			rec = f.serve(h, http.MethodDelete, "/topicos/5", header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Zero(t, h.calls)
		})
	}
	assert.Zero(t, f.users.calls, "rejected tokens must not reach the store")
}

func TestGate_SchemeHandling(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, 7)

	for _, header := range []string{"Bearer " + token, "bearer " + token, "BEARER  " + token, token} {
		h := &recordingHandler{}
		rec := f.serve(h, http.MethodPost, "/topicos", header)
		assert.Equal(t, http.StatusOK, rec.Code, header)
		require.NotNil(t, h.principal)
		assert.Equal(t, int64(7), h.principal.ID)
	}
}

func TestGate_LookupFailures(t *testing.T) {
	tests := []struct {
		name  string
		id    int64
		err   error
		calls int
	}{
		{name: "subject deleted", id: 99, calls: 1},
		{name: "store unavailable", id: 7, err: errors.New("connection refused"), calls: 1},
		{name: "lookup timed out", id: 7, err: context.DeadlineExceeded, calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.users.err = tt.err
			token := f.token(t, tt.id)

			h := &recordingHandler{}
			rec := f.serve(h, http.MethodGet, "/topicos", "Bearer "+token)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Nil(t, h.principal)
			assert.Equal(t, tt.calls, f.users.calls, "lookups are never retried")
			assert.True(t, f.users.hadDeadline)

			rec = f.serve(h, http.MethodPost, "/topicos", "Bearer "+token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestGate_RecoversPanic(t *testing.T) {
	f := newFixture(t)
	f.users.panics = true

	h := &recordingHandler{}
	rec := f.serve(h, http.MethodGet, "/topicos", "Bearer "+f.token(t, 7))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, h.calls)
	assert.Nil(t, h.principal)
}

func TestGate_FreshContextPerRequest(t *testing.T) {
	f := newFixture(t)
	stale := models.NewSecurityContext()
	require.NoError(t, stale.Authenticate(&models.User{ID: 1}))

	h := &recordingHandler{}
	req := httptest.NewRequest(http.MethodGet, "/topicos", nil)
	req = req.WithContext(models.WithSecurityContext(req.Context(), stale))
	f.m.Auth(h).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1, h.calls)
	assert.Nil(t, h.principal)
}

func TestGate_SetsLogUserID(t *testing.T) {
	f := newFixture(t)

	var lc wrap.LogCtx
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lc, _ = r.Context().Value(wrap.LogCtxKey).(wrap.LogCtx)
	})
	f.serve(h, http.MethodPost, "/topicos", "Bearer "+f.token(t, 7))

	assert.Equal(t, "7", lc.UserID)
}

func TestExtractToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		"Bearer  abc ": "abc",
		"abc":          "abc",
		"Basic abc":    "Basic abc",
		"Bearer":       "Bearer",
		"":             "",
	}
	for header, want := range tests {
		assert.Equal(t, want, extractToken(header), header)
	}
}

func TestRequestID(t *testing.T) {
	f := newFixture(t)

	var seen string
	h := f.m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lc, _ := r.Context().Value(wrap.LogCtxKey).(wrap.LogCtx)
		seen = lc.RequestID
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/topicos", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/topicos", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestRecover(t *testing.T) {
	f := newFixture(t)

	h := f.m.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/topicos", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("first"), mw("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestMetricsRecordsStatus(t *testing.T) {
	f := newFixture(t)

	route := func(*http.Request) string { return "/topicos" }
	h := f.m.Metrics("metrics-status-test", route)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/topicos", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(
		metrics.HttpRequestsTotal.WithLabelValues("metrics-status-test", http.MethodGet, "/topicos", "418")))
}

func TestMetricsNilRouteFallsBackToOther(t *testing.T) {
	f := newFixture(t)

	h := f.m.Metrics("metrics-nil-route-test", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < 20; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, fmt.Sprintf("/random-%d", i), nil))
	}
	assert.Equal(t, float64(20), testutil.ToFloat64(
		metrics.HttpRequestsTotal.WithLabelValues("metrics-nil-route-test", http.MethodGet, metrics.RouteOther, "200")))
}

func mustKey(t *testing.T) auth.SigningKey {
	t.Helper()
	key, err := auth.NewSigningKey(testSecret)
	require.NoError(t, err)
	return key
}

func flip(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
	}
	return string(b)
}
