package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/recallr/recallr-api/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom returns the verified identity placed in the request
// context by EnsureValidToken.
func IdentityFrom(r *http.Request) (auth.Identity, bool) {
	identity, ok := r.Context().Value(identityKey).(auth.Identity)
	return identity, ok
}

// EnsureValidToken guards a route: it pulls the bearer token out of the
// Authorization header, verifies it, and attaches the resulting
// identity to the request context. Failures log the real cause and
// answer with a generic 401 so verification internals never reach the
// client.
func EnsureValidToken(verifier auth.Verifier, log *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ParseBearer(r.Header.Get("Authorization"))
			if err != nil {
				log.Warn("request without usable bearer token",
					zap.String("path", r.URL.Path), zap.Error(err))
				unauthorized(w)
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Warn("bearer token rejected",
					zap.String("path", r.URL.Path), zap.Error(err))
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "authentication failed"})
}

const requestIDKey contextKey = "request_id"

// RequestIDFrom returns the id assigned by RequestID, or "" when the
// request never passed through it.
func RequestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

// RequestID tags every request with a short id for log correlation and
// echoes it back in the X-Request-Id header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := gonanoid.New()
		if err == nil {
			w.Header().Set("X-Request-Id", id)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

// WithLogging logs one line per request with method, path, timing and
// the correlation id when RequestID runs further out.
func WithLogging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFrom(r)),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
