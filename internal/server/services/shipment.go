package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shipshopglobal/backend/internal/common"
	"github.com/shipshopglobal/backend/internal/logging"
	"github.com/shipshopglobal/backend/internal/server/artifacts"
	"github.com/shipshopglobal/backend/internal/server/models"
	"github.com/shipshopglobal/backend/internal/server/repositories/repomanager"
)

// ShipmentView is a shipment with its stored artifact keys resolved to
// time-limited download URLs.
type ShipmentView struct {
	*models.Shipment
	InvoiceURL string
	ImageURL   string
}

// ShipmentService exposes shipment listings and the admin status update.
type ShipmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       artifacts.Store
	logger      logging.Logger
}

func NewShipmentService(db *sql.DB, m repomanager.RepositoryManager,
	store artifacts.Store, logger logging.Logger) *ShipmentService {
	return &ShipmentService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("module", "shipment_service"),
	}
}

// List returns shipments visible to the actor: admins see everything, other
// users see their own. Artifact keys are resolved to presigned URLs; a
// presign failure degrades the view to an empty URL rather than failing the
// listing.
func (s *ShipmentService) List(ctx context.Context, actor Actor) ([]*ShipmentView, error) {
	var (
		shipments []*models.Shipment
		err       error
	)
	if actor.IsAdmin {
		shipments, err = s.repomanager.Shipments(s.db).ListAll(ctx)
	} else {
		shipments, err = s.repomanager.Shipments(s.db).ListByOwner(ctx, actor.UserID)
	}
	if err != nil {
		return nil, err
	}

	views := make([]*ShipmentView, 0, len(shipments))
	for _, shipment := range shipments {
		views = append(views, &ShipmentView{
			Shipment:   shipment,
			InvoiceURL: s.presign(ctx, shipment.InvoiceKey),
			ImageURL:   s.presign(ctx, shipment.ImageKey),
		})
	}
	return views, nil
}

// Get returns one shipment with resolved artifact URLs.
func (s *ShipmentService) Get(ctx context.Context, actor Actor, id string) (*ShipmentView, error) {
	shipment, err := s.repomanager.Shipments(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.mayActOn(shipment.UserID) {
		return nil, common.ErrorForbidden
	}
	return &ShipmentView{
		Shipment:   shipment,
		InvoiceURL: s.presign(ctx, shipment.InvoiceKey),
		ImageURL:   s.presign(ctx, shipment.ImageKey),
	}, nil
}

// UpdateStatus sets a shipment's lifecycle status and optionally the carrier
// details. Admin only. Status values outside the enum are rejected; ordering
// between statuses is deliberately not enforced.
func (s *ShipmentService) UpdateStatus(ctx context.Context, actor Actor, id string,
	status models.ShipmentStatus, carrier, trackingURL string) (*models.Shipment, error) {
	if !actor.IsAdmin {
		return nil, common.ErrorForbidden
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown shipment status %q", common.ErrorValidation, status)
	}

	repo := s.repomanager.Shipments(s.db)
	if err := repo.UpdateStatus(ctx, id, status, carrier, trackingURL); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

func (s *ShipmentService) presign(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	url, err := s.store.PresignGet(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "presign artifact url", "key", key, "error", err.Error())
		return ""
	}
	return url
}
