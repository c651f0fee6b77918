package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/recallr/recallr-api/auth"
)

type stubVerifier struct {
	identities map[string]auth.Identity
}

func (s stubVerifier) Verify(ctx context.Context, token string) (auth.Identity, error) {
	if identity, ok := s.identities[token]; ok {
		return identity, nil
	}
	return auth.Identity{}, auth.ErrInvalidToken
}

func TestEnsureValidToken(t *testing.T) {
	verifier := stubVerifier{identities: map[string]auth.Identity{
		"good-token": {ID: "user-7", Email: "seven@example.com"},
	}}
	guard := EnsureValidToken(verifier, zap.NewNop())

	var seen auth.Identity
	handler := guard(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r)
		require.True(t, ok)
		seen = identity
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid with prefix", "Bearer good-token", http.StatusOK},
		{"valid without prefix", "good-token", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"empty after strip", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer forged", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/decks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "user-7", seen.ID)
			} else {
				// generic body, no verification detail
				assert.Contains(t, w.Body.String(), "authentication failed")
				assert.NotContains(t, w.Body.String(), "token")
			}
		})
	}
}

func TestEnsureValidToken_DoesNotLeakVerifierErrors(t *testing.T) {
	leaky := verifierFunc(func(ctx context.Context, token string) (auth.Identity, error) {
		return auth.Identity{}, errors.New("jwks fetch failed: secret=abc")
	})
	guard := EnsureValidToken(leaky, zap.NewNop())

	handler := guard(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/decks", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "jwks")
	assert.NotContains(t, w.Body.String(), "secret")
}

type verifierFunc func(ctx context.Context, token string) (auth.Identity, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (auth.Identity, error) {
	return f(ctx, token)
}

func TestRequestID(t *testing.T) {
	var fromContext string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext = RequestIDFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	header := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, header)
	assert.Equal(t, header, fromContext)
}

func TestWithLogging_CarriesRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := RequestID(WithLogging(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/decks", nil))

	entries := logs.FilterMessage("request handled").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, w.Header().Get("X-Request-Id"), fields["request_id"])
	assert.NotEmpty(t, fields["request_id"])
}
