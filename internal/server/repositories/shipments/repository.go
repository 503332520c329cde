package shipments

import (
	"context"

	"github.com/shipshopglobal/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, shipment *models.Shipment) (*models.Shipment, error)
	GetByID(ctx context.Context, id string) (*models.Shipment, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Shipment, error)
	ListAll(ctx context.Context) ([]*models.Shipment, error)

	// UpdateStatus sets the lifecycle status and, when non-empty, the
	// carrier name and tracking URL.
	UpdateStatus(ctx context.Context, id string, status models.ShipmentStatus, carrier, trackingURL string) error
}
