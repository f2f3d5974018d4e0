package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelink/woosync/internal/adapters/logger"
	"github.com/storelink/woosync/internal/security"
)

func authProtected(t *testing.T, tokens *security.TokenManager) (http.Handler, *string) {
	t.Helper()
	var seenUserID string
	handler := JWTAuth(tokens, logger.NewNopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		seenUserID = userID
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seenUserID
}

func doAuth(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	tokens := security.NewTokenManager("test-secret", time.Hour, "woosync")
	token, err := tokens.Generate("user-1")
	require.NoError(t, err)

	handler, seenUserID := authProtected(t, tokens)

	rec := doAuth(handler, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", *seenUserID)

	// Second request is served from the token cache.
	rec = doAuth(handler, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", *seenUserID)
}

func TestJWTAuthRejects(t *testing.T) {
	tokens := security.NewTokenManager("test-secret", time.Hour, "woosync")
	expired := security.NewTokenManager("test-secret", -time.Hour, "woosync")
	expiredToken, err := expired.Generate("user-1")
	require.NoError(t, err)
	foreign := security.NewTokenManager("other-secret", time.Hour, "woosync")
	foreignToken, err := foreign.Generate("user-1")
	require.NoError(t, err)

	handler, _ := authProtected(t, tokens)

	tests := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"malformed header", "Bearer"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expiredToken},
		{"wrong signing key", "Bearer " + foreignToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAuth(handler, tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	var ctxRequestID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxRequestID, _ = r.Context().Value("request_id").(string)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	generated := rec.Header().Get("X-Request-ID")
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, ctxRequestID)

	// Client-supplied identifiers are propagated untouched.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-123", ctxRequestID)
}

func TestRecovererTurnsPanicInto500(t *testing.T) {
	handler := Recoverer(logger.NewNopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://app.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	// Preflight requests short-circuit before the handler.
	req = httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "https://app.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
