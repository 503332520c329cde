// Package refreshtokens persists the server-side half of refresh-token
// rotation: each login or refresh stores a fresh token and revokes the old
// one.
package refreshtokens

import (
	"context"
	"time"

	"github.com/shipshopglobal/backend/internal/server/models"
)

// Repository stores issued refresh tokens.
type Repository interface {
	// Create stores token for userID, expiring at now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns the stored token record, or a not-found error when the
	// token was never issued or already revoked.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete revokes a token. Revoking an unknown token is a not-found error.
	Delete(ctx context.Context, token string) error
}
