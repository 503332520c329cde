// Package mailbox provides the PostgreSQL-backed repository for virtual
// mailbox items, including the locked multi-row reads used by checkout.
package mailbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shipshopglobal/backend/internal/common"
	"github.com/shipshopglobal/backend/internal/dbx"
	"github.com/shipshopglobal/backend/internal/server/models"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const itemColumns = `id, user_id, item_name, product_value, tracking_number,
	weight_kg, dimension, image_key, shipping_price, created_at`

func scanItem(row interface{ Scan(...any) error }) (*models.MailboxItem, error) {
	item := &models.MailboxItem{}
	err := row.Scan(&item.ID, &item.UserID, &item.ItemName, &item.ProductValue,
		&item.TrackingNumber, &item.WeightKg, &item.Dimension, &item.ImageKey,
		&item.ShippingPrice, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.MailboxItem) (*models.MailboxItem, error) {

	query :=
		`INSERT INTO mailbox_items (user_id, item_name, product_value, tracking_number,
		    weight_kg, dimension, image_key, shipping_price)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		item.UserID, item.ItemName, item.ProductValue, item.TrackingNumber,
		item.WeightKg, item.Dimension, item.ImageKey, item.ShippingPrice).
		Scan(&item.ID, &item.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.MailboxItem, error) {
	query := `SELECT ` + itemColumns + ` FROM mailbox_items WHERE id = $1`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.MailboxItem, error) {
	query := `SELECT ` + itemColumns + ` FROM mailbox_items
		 WHERE user_id = $1
		 ORDER BY created_at`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListByIDsForUpdate(ctx context.Context, ids []string) ([]*models.MailboxItem, error) {
	query := `SELECT ` + itemColumns + ` FROM mailbox_items
		 WHERE id = ANY($1)
		 ORDER BY created_at
		 FOR UPDATE`
	return r.list(ctx, query, ids)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.MailboxItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.MailboxItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd ItemUpdate) error {
	query := `
		UPDATE mailbox_items SET
			product_value = COALESCE($2, product_value),
			shipping_price = COALESCE($3, shipping_price),
			tracking_number = COALESCE($4, tracking_number),
			weight_kg = COALESCE($5, weight_kg),
			dimension = COALESCE($6, dimension)
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id,
		decimalPtr(upd.ProductValue), decimalPtr(upd.ShippingPrice),
		upd.TrackingNumber, upd.WeightKg, upd.Dimension)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) SetShippingPrice(ctx context.Context, id string, price decimal.Decimal) error {
	query := `UPDATE mailbox_items SET shipping_price = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, price)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM mailbox_items WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	query := `DELETE FROM mailbox_items WHERE id = ANY($1)`

	res, err := r.db.ExecContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != int64(len(ids)) {
		return fmt.Errorf("expected to delete %d items, deleted %d: %w", len(ids), n, common.ErrorNotFound)
	}
	return nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// decimalPtr converts an optional decimal into a driver-friendly nullable
// value. decimal.Decimal itself implements driver.Valuer, but a typed nil
// pointer would not read as SQL NULL.
func decimalPtr(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return *d
}
