package users

import (
	"context"
	"time"

	"github.com/shipshopglobal/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// ListRecentByIP returns registrations from ip since the given time,
	// newest first. The signup guard's window query.
	ListRecentByIP(ctx context.Context, ip string, since time.Time) ([]*models.User, error)

	ListPendingApproval(ctx context.Context) ([]*models.User, error)
	SetApproved(ctx context.Context, id string) error

	// ListCustomers returns all non-admin users.
	ListCustomers(ctx context.Context) ([]*models.User, error)
}
