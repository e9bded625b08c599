package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/crypto"
	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/logging"
)

func protectedHandler(t *testing.T) (http.Handler, *crypto.JWTServiceImpl) {
	tokens := crypto.NewJWTService("secret")
	mw := New(tokens, logging.NewNopLogger())
	return mw.JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(identity.UserID))
	})), tokens
}

func TestJWTMiddleware_Accepts(t *testing.T) {
	handler, tokens := protectedHandler(t)
	token, err := tokens.GenerateTokenHMAC(context.Background(), "student-1", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "student-1", rec.Body.String())
}

func TestJWTMiddleware_TokenHeader(t *testing.T) {
	handler, tokens := protectedHandler(t)
	token, err := tokens.GenerateTokenHMAC(context.Background(), "student-1", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("token", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	handler, _ := protectedHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentityFrom_Empty(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)
}
