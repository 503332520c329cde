// Package blockedips provides the PostgreSQL-backed repository for the
// registration block-list written by the signup guard.
package blockedips

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

func (r *PostgresRepository) Get(ctx context.Context, ip string) (*models.BlockedIP, error) {
	query := `SELECT ip, reason, blocked_at FROM blocked_ips WHERE ip = $1`

	b := &models.BlockedIP{}
	err := r.db.QueryRowContext(ctx, query, ip).Scan(&b.IP, &b.Reason, &b.BlockedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, ip, reason string) error {
	query := `
		INSERT INTO blocked_ips (ip, reason)
		VALUES ($1, $2)
		ON CONFLICT (ip)
		DO UPDATE SET reason = EXCLUDED.reason, blocked_at = now()
	`

	if _, err := r.db.ExecContext(ctx, query, ip, reason); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
