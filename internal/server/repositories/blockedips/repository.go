package blockedips

import (
	"context"

	"github.com/shipshopglobal/backend/internal/server/models"
)

type Repository interface {
	// Get returns the block entry for ip, or ErrorNotFound.
	Get(ctx context.Context, ip string) (*models.BlockedIP, error)

	// Upsert inserts or refreshes the block entry for ip.
	Upsert(ctx context.Context, ip, reason string) error
}
