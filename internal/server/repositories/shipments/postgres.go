// Package shipments provides the PostgreSQL-backed repository for
// post-payment shipment records.
package shipments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shipshopglobal/backend/internal/common"
	"github.com/shipshopglobal/backend/internal/dbx"
	"github.com/shipshopglobal/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const shipmentColumns = `id, user_id, item_name, product_value, tracking_number,
	weight_kg, dimension, image_key, shipping_price, invoice_key, status,
	carrier, carrier_tracking_url, paid, created_at`

func scanShipment(row interface{ Scan(...any) error }) (*models.Shipment, error) {
	s := &models.Shipment{}
	err := row.Scan(&s.ID, &s.UserID, &s.ItemName, &s.ProductValue,
		&s.TrackingNumber, &s.WeightKg, &s.Dimension, &s.ImageKey,
		&s.ShippingPrice, &s.InvoiceKey, &s.Status, &s.Carrier,
		&s.CarrierTrackingURL, &s.Paid, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, shipment *models.Shipment) (*models.Shipment, error) {

	query :=
		`INSERT INTO shipments (user_id, item_name, product_value, tracking_number,
		    weight_kg, dimension, image_key, shipping_price, invoice_key, status,
		    carrier, carrier_tracking_url, paid)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		shipment.UserID, shipment.ItemName, shipment.ProductValue,
		shipment.TrackingNumber, shipment.WeightKg, shipment.Dimension,
		shipment.ImageKey, shipment.ShippingPrice, shipment.InvoiceKey,
		shipment.Status, shipment.Carrier, shipment.CarrierTrackingURL,
		shipment.Paid).Scan(&shipment.ID, &shipment.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return shipment, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1`

	s, err := scanShipment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments
		 WHERE user_id = $1
		 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Shipment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.ShipmentStatus, carrier, trackingURL string) error {
	query := `
		UPDATE shipments SET
			status = $2,
			carrier = COALESCE(NULLIF($3, ''), carrier),
			carrier_tracking_url = COALESCE(NULLIF($4, ''), carrier_tracking_url)
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, status, carrier, trackingURL)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
