package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shipshopglobal/backend/internal/common"
	"github.com/shipshopglobal/backend/internal/dbx"
	"github.com/shipshopglobal/backend/internal/logging"
	"github.com/shipshopglobal/backend/internal/server/artifacts"
	"github.com/shipshopglobal/backend/internal/server/invoice"
	"github.com/shipshopglobal/backend/internal/server/models"
	"github.com/shipshopglobal/backend/internal/server/notify"
	"github.com/shipshopglobal/backend/internal/server/payment"
	"github.com/shipshopglobal/backend/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// CheckoutService orchestrates the two-phase payment flow that converts
// mailbox items into shipments.
//
// The flow is stateless between calls: the client carries the item set
// through Quote, CreateIntent and Execute. Execute performs the conversion
// as one transaction so that concurrent attempts against overlapping item
// sets cannot both succeed.
type CheckoutService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	provider    payment.Provider
	store       artifacts.Store
	notifier    notify.Notifier
	logger      logging.Logger
	currency    string
}

func NewCheckoutService(db *sql.DB, m repomanager.RepositoryManager,
	provider payment.Provider, store artifacts.Store, notifier notify.Notifier,
	logger logging.Logger, currency string) *CheckoutService {
	return &CheckoutService{
		db:          db,
		repomanager: m,
		provider:    provider,
		store:       store,
		notifier:    notifier,
		logger:      logger.With("module", "checkout_service"),
		currency:    currency,
	}
}

// Currency reports the charge currency quotes are made in.
func (s *CheckoutService) Currency() string { return s.currency }

// Quote sums the stamped shipping prices of the given items. Items without a
// stamped price count as zero. All items must exist and belong to the actor
// (admins may quote any).
func (s *CheckoutService) Quote(ctx context.Context, actor Actor, itemIDs []string) (decimal.Decimal, error) {
	if len(itemIDs) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no items selected", common.ErrorValidation)
	}

	total := decimal.Zero
	repo := s.repomanager.Mailbox(s.db)
	for _, id := range itemIDs {
		item, err := repo.GetByID(ctx, id)
		if err != nil {
			return decimal.Zero, err
		}
		if !actor.mayActOn(item.UserID) {
			return decimal.Zero, common.ErrorForbidden
		}
		if item.ShippingPrice.Valid {
			total = total.Add(item.ShippingPrice.Decimal)
		}
	}
	return total, nil
}

// CreateIntent quotes the item set and submits a payment intent to the
// provider. Nothing is persisted; a failed call leaves no partial state.
func (s *CheckoutService) CreateIntent(ctx context.Context, actor Actor, itemIDs []string) (*payment.Intent, error) {
	total, err := s.Quote(ctx, actor, itemIDs)
	if err != nil {
		return nil, err
	}

	intent, err := s.provider.CreateIntent(ctx, total, s.currency)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "payment intent created", "payment_id", intent.ID, "amount", total.String())
	return intent, nil
}

// Execute finalizes an approved payment and converts the item set into
// shipments.
//
// After the provider confirms, one transaction locks the items, renders and
// uploads the invoice, creates a shipment per item and deletes the items. A
// second execute against the same set finds the items gone and fails with
// not-found. The invoice notification goes out after commit; its failure is
// logged and never reverses the shipments.
func (s *CheckoutService) Execute(ctx context.Context, actor Actor, paymentID, payerToken string, itemIDs []string) ([]*models.Shipment, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: no items selected", common.ErrorValidation)
	}

	if err := s.provider.Execute(ctx, paymentID, payerToken); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	var (
		created    []*models.Shipment
		invoiceURL string
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Mailbox(tx)

		items, err := repo.ListByIDsForUpdate(ctx, itemIDs)
		if err != nil {
			return err
		}
		if len(items) != len(itemIDs) {
			return fmt.Errorf("mailbox items already consumed: %w", common.ErrorNotFound)
		}
		for _, item := range items {
			if !actor.mayActOn(item.UserID) {
				return common.ErrorForbidden
			}
		}

		key := artifacts.InvoiceKey()
		pdf, err := invoice.Render(invoiceData(user, paymentID, items))
		if err != nil {
			return fmt.Errorf("invoice render: %w", err)
		}
		if err := s.store.Put(ctx, key, pdf, "application/pdf"); err != nil {
			return fmt.Errorf("invoice upload: %w", err)
		}

		shipmentRepo := s.repomanager.Shipments(tx)
		created = created[:0]
		for _, item := range items {
			price := decimal.Zero
			if item.ShippingPrice.Valid {
				price = item.ShippingPrice.Decimal
			}
			shipment, err := shipmentRepo.Create(ctx, &models.Shipment{
				UserID:         item.UserID,
				ItemName:       item.ItemName,
				ProductValue:   item.ProductValue,
				TrackingNumber: item.TrackingNumber,
				WeightKg:       item.WeightKg,
				Dimension:      item.Dimension,
				ImageKey:       item.ImageKey,
				ShippingPrice:  price,
				InvoiceKey:     key,
				Status:         models.StatusInTransit,
				Paid:           true,
			})
			if err != nil {
				return err
			}
			created = append(created, shipment)
		}

		if err := repo.DeleteByIDs(ctx, itemIDs); err != nil {
			return err
		}

		invoiceURL, err = s.store.PresignGet(ctx, key)
		if err != nil {
			// The invoice itself is safely stored; the mail just goes
			// out without a link.
			s.logger.Warn(ctx, "presign invoice url", "error", err.Error())
			invoiceURL = ""
			err = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	msg := notify.Message{
		To:      user.Email,
		Subject: "Your Payment Invoice",
		Body: fmt.Sprintf("Dear %s,\n\nThank you for your payment. "+
			"Your invoice is attached.\n\nPayment reference: %s", user.Email, paymentID),
		AttachmentURL: invoiceURL,
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Error(ctx, "invoice notification failed", "error", err.Error(), "payment_id", paymentID)
	}

	return created, nil
}

func invoiceData(user *models.User, paymentID string, items []*models.MailboxItem) invoice.Data {
	data := invoice.Data{
		Username:   user.Username,
		CustomerID: user.CustomerID,
		Email:      user.Email,
		PaymentID:  paymentID,
		IssuedAt:   time.Now(),
	}
	for _, item := range items {
		price := decimal.Zero
		if item.ShippingPrice.Valid {
			price = item.ShippingPrice.Decimal
		}
		data.Lines = append(data.Lines, invoice.Line{
			Name:           item.ItemName,
			Price:          price,
			WeightKg:       item.WeightKg,
			Dimension:      item.Dimension,
			TrackingNumber: item.TrackingNumber,
		})
	}
	return data
}
