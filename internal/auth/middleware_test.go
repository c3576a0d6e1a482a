package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedHandler(t *testing.T, captured *Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok, "identity must be attached after the middleware")
		*captured = identity
		w.WriteHeader(http.StatusOK)
	})
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestMiddlewareMissingToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	var identity Identity
	handler := Middleware(issuer, testLogger())(protectedHandler(t, &identity))

	req := httptest.NewRequest("GET", "/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token não fornecido")
}

func TestMiddlewareInvalidToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	var identity Identity
	handler := Middleware(issuer, testLogger())(protectedHandler(t, &identity))

	req := httptest.NewRequest("GET", "/orders", nil)
	req.Header.Set("Authorization", "Bearer this-is-not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token inválido")
}

func TestMiddlewareValidToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	token, err := issuer.Issue(9, "ana@example.com")
	require.NoError(t, err)

	var identity Identity
	handler := Middleware(issuer, testLogger())(protectedHandler(t, &identity))

	req := httptest.NewRequest("GET", "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9, identity.UserID)
	assert.Equal(t, "ana@example.com", identity.Email)
}

func TestMiddlewareAcceptsBareToken(t *testing.T) {
	// The scheme label is stripped by text replacement, so a header without
	// it still verifies.
	issuer := NewTokenIssuer("test-secret")
	token, err := issuer.Issue(3, "x@example.com")
	require.NoError(t, err)

	var identity Identity
	handler := Middleware(issuer, testLogger())(protectedHandler(t, &identity))

	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, identity.UserID)
}
