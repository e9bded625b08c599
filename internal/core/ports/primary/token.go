package primary

import (
	"context"
	"time"
)

// Identity is the caller resolved from a verified token.
type Identity struct {
	UserID string
}

type TokenService interface {
	// GenerateTokenHMAC signs a token for userID valid for ttl
	GenerateTokenHMAC(ctx context.Context, userID string, ttl time.Duration) (string, error)
	// VerifyTokenHMAC checks the signature and expiry and returns the caller identity
	VerifyTokenHMAC(ctx context.Context, token string) (Identity, error)
}
