package mailbox

import (
	"context"

	"github.com/shipshopglobal/backend/internal/server/models"
	"github.com/shopspring/decimal"
)

// ItemUpdate carries the partially-updatable mailbox item fields. Nil means
// "leave unchanged".
type ItemUpdate struct {
	ProductValue   *decimal.Decimal
	ShippingPrice  *decimal.Decimal
	TrackingNumber *string
	WeightKg       *float64
	Dimension      *string
}

type Repository interface {
	Create(ctx context.Context, item *models.MailboxItem) (*models.MailboxItem, error)
	GetByID(ctx context.Context, id string) (*models.MailboxItem, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.MailboxItem, error)
	Update(ctx context.Context, id string, upd ItemUpdate) error
	SetShippingPrice(ctx context.Context, id string, price decimal.Decimal) error
	Delete(ctx context.Context, id string) error

	// ListByIDsForUpdate locks and returns the given items. Run inside a
	// transaction; the row locks make concurrent checkouts against
	// overlapping item sets serialize.
	ListByIDsForUpdate(ctx context.Context, ids []string) ([]*models.MailboxItem, error)

	DeleteByIDs(ctx context.Context, ids []string) error
}
