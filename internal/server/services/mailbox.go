package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shipshopglobal/backend/internal/common"
	"github.com/shipshopglobal/backend/internal/dbx"
	"github.com/shipshopglobal/backend/internal/logging"
	"github.com/shipshopglobal/backend/internal/server/models"
	"github.com/shipshopglobal/backend/internal/server/pricing"
	"github.com/shipshopglobal/backend/internal/server/repositories/mailbox"
	"github.com/shipshopglobal/backend/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// MailboxService manages virtual mailbox items: intake with a synchronous
// shipping price stamp, owner listings, partial updates and removal.
type MailboxService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	calculator  *pricing.Calculator
	logger      logging.Logger
}

func NewMailboxService(db *sql.DB, m repomanager.RepositoryManager,
	calc *pricing.Calculator, logger logging.Logger) *MailboxService {
	return &MailboxService{
		db:          db,
		repomanager: m,
		calculator:  calc,
		logger:      logger.With("module", "mailbox_service"),
	}
}

// CreateInput carries the intake fields for a new mailbox item.
type CreateInput struct {
	UserID         string
	ItemName       string
	ProductValue   decimal.Decimal
	TrackingNumber string
	WeightKg       float64
	Dimension      string
	ImageKey       string
}

// Create logs a parcel into a user's mailbox and stamps its shipping price in
// the same transaction. Pricing is fail-open: a quote of zero never blocks
// intake.
func (s *MailboxService) Create(ctx context.Context, actor Actor, in CreateInput) (*models.MailboxItem, error) {
	if !actor.mayActOn(in.UserID) {
		return nil, common.ErrorForbidden
	}
	if in.ItemName == "" {
		return nil, fmt.Errorf("%w: item name is required", common.ErrorValidation)
	}

	item := &models.MailboxItem{
		UserID:         in.UserID,
		ItemName:       in.ItemName,
		ProductValue:   in.ProductValue,
		TrackingNumber: in.TrackingNumber,
		WeightKg:       in.WeightKg,
		Dimension:      in.Dimension,
		ImageKey:       in.ImageKey,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Mailbox(tx).Create(ctx, item)
		if err != nil {
			return err
		}

		price := s.calculator.Quote(ctx, created.WeightKg, created.Dimension)
		if err := s.repomanager.Mailbox(tx).SetShippingPrice(ctx, created.ID, price); err != nil {
			return err
		}
		created.ShippingPrice = decimal.NewNullDecimal(price)

		item = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// List returns the mailbox items owned by userID.
func (s *MailboxService) List(ctx context.Context, actor Actor, userID string) ([]*models.MailboxItem, error) {
	if !actor.mayActOn(userID) {
		return nil, common.ErrorForbidden
	}
	return s.repomanager.Mailbox(s.db).ListByOwner(ctx, userID)
}

// Update applies a partial update to an item. Owners may adjust their own
// items; admins may adjust any. An item consumed by checkout is gone, so the
// caller sees not-found.
func (s *MailboxService) Update(ctx context.Context, actor Actor, id string, upd mailbox.ItemUpdate) (*models.MailboxItem, error) {
	var item *models.MailboxItem
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Mailbox(tx)

		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.mayActOn(existing.UserID) {
			return common.ErrorForbidden
		}

		if err := repo.Update(ctx, id, upd); err != nil {
			return err
		}

		item, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item from a mailbox. Admin only.
func (s *MailboxService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin {
		return common.ErrorForbidden
	}
	return s.repomanager.Mailbox(s.db).Delete(ctx, id)
}
