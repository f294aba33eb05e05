package middleware

import (
	"net/http"

	wrap "github.com/Temutjin2k/forum-api/pkg/logger/wrapper"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLength = 128
)

// RequestID propagates the caller's X-Request-ID or generates one.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(wrap.WithRequestID(r.Context(), id)))
	})
}
