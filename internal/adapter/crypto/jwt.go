package crypto

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

var _ primary.TokenService = (*JWTServiceImpl)(nil)

const defaultTokenTTL = time.Hour

type JWTServiceImpl struct {
	HMACSecretKey string
}

func NewJWTService(secret string) *JWTServiceImpl {
	return &JWTServiceImpl{
		HMACSecretKey: secret,
	}
}

func (J JWTServiceImpl) GenerateTokenHMAC(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errs.ErrMissingUserID
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(J.HMACSecretKey))
}

// VerifyTokenHMAC takes the user id from "sub", a "user_id" claim or a
// {"user": {"id": ...}} object, in that order of preference.
func (J JWTServiceImpl) VerifyTokenHMAC(ctx context.Context, token string) (primary.Identity, error) {
	if token == "" {
		return primary.Identity{}, errs.ErrMissingToken
	}

	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(J.HMACSecretKey), nil
	})
	if err != nil || !parsedToken.Valid {
		return primary.Identity{}, fmt.Errorf("%w: %v", errs.ErrInvalidToken, err)
	}

	userID := userIDFromClaims(claims)
	if userID == "" {
		return primary.Identity{}, errs.ErrMissingUserID
	}
	return primary.Identity{UserID: userID}, nil
}

func userIDFromClaims(claims jwt.MapClaims) string {
	if sub, _ := claims.GetSubject(); sub != "" {
		return sub
	}
	if id := claimString(claims["user_id"]); id != "" {
		return id
	}
	if user, ok := claims["user"].(map[string]interface{}); ok {
		return claimString(user["id"])
	}
	return ""
}

// claimString renders string and numeric claim values.
func claimString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}
