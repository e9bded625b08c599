package handlers

import (
	"context"
	"net/http"
	"strings"

	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers/response"
	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

type identityKey struct{}

type MiddlewareProvider struct {
	tokens primary.TokenService
	logger primary.Logger
}

func New(tokens primary.TokenService, logger primary.Logger) *MiddlewareProvider {
	return &MiddlewareProvider{
		tokens: tokens,
		logger: logger,
	}
}

// JWTMiddleware rejects requests without a valid token and stores the caller
// identity in the request context. The token is read from a bearer
// Authorization header or, for older clients, from the "token" header.
func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			response.WriteErrorFrom(w, errs.ErrMissingToken)
			return
		}

		identity, err := m.tokens.VerifyTokenHMAC(r.Context(), tokenString)
		if err != nil {
			m.logger.Debug("Rejected token", "path", r.URL.Path, "error", err)
			response.WriteErrorFrom(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func bearerToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		// Extract token from "Bearer <token>"
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return strings.TrimSpace(r.Header.Get("token"))
}

func WithIdentity(ctx context.Context, identity primary.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the caller stored by JWTMiddleware.
func IdentityFrom(ctx context.Context) (primary.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(primary.Identity)
	return identity, ok && identity.UserID != ""
}
